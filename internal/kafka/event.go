package kafka

import (
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/google/uuid"
)

const EventBookingCreated = "booking_created"

type BookingEvent struct {
	EventID    string         `json:"event_id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Booking    BookingPayload `json:"booking"`
}

// BookingPayload carries a ledger record in the same textual form the
// ledger file uses for the timestamp and amount.
type BookingPayload struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Gender        string `json:"gender"`
	Meal          int    `json:"meal"`
	Wheelchair    bool   `json:"wheelchair"`
	LuggageKg     int    `json:"luggage"`
	SeatNo        string `json:"seatNo"`
	BookingTime   string `json:"bookingTime"`
	PaymentMethod int    `json:"paymentMethod"`
	Amount        string `json:"amount"`
}

func NewBookingEvent(eventType string, b *domain.Booking) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Booking: BookingPayload{
			ID:            b.ID,
			Name:          b.Name,
			Phone:         b.Phone,
			Email:         b.Email,
			Gender:        b.Gender,
			Meal:          b.Meal,
			Wheelchair:    b.Wheelchair,
			LuggageKg:     b.LuggageKg,
			SeatNo:        b.SeatNo,
			BookingTime:   b.BookedAt.Format(domain.BookingTimeLayout),
			PaymentMethod: b.PaymentMethod,
			Amount:        b.Amount.String(),
		},
	}
}
