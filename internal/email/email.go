package email

import (
	"context"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers booking confirmations. Delivery is logged only; there is
// no mail transport wired in.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{log: log.Named("email")}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Booking.Email == "" {
		s.log.Debug("no email address on booking", zap.Int64("booking_id", event.Booking.ID))
		return nil
	}
	s.log.Info("send booking confirmation",
		zap.String("to", event.Booking.Email),
		zap.String("event", event.Type),
		zap.Int64("booking_id", event.Booking.ID),
		zap.String("seat", event.Booking.SeatNo),
		zap.String("meal", domain.Meal(event.Booking.Meal).String()),
		zap.String("payment", domain.PaymentMethod(event.Booking.PaymentMethod).String()),
		zap.String("amount", event.Booking.Amount),
	)
	return nil
}
