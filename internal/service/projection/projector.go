// Package projection keeps the Postgres copy of the ledger in step with it.
package projection

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/repository"
	"go.uber.org/zap"
)

type BookingLister interface {
	ListBookings(ctx context.Context) ([]domain.Booking, error)
}

type Projector struct {
	ledger     BookingLister
	projection repository.BookingProjection
	log        *zap.Logger
}

func NewProjector(ledger BookingLister, projection repository.BookingProjection, log *zap.Logger) *Projector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Projector{ledger: ledger, projection: projection, log: log.Named("projection")}
}

// Apply projects one booking event. Events of unknown type are ignored.
func (p *Projector) Apply(ctx context.Context, event kafka.BookingEvent) error {
	if event.Type != kafka.EventBookingCreated {
		p.log.Debug("ignoring event", zap.String("type", event.Type), zap.String("event_id", event.EventID))
		return nil
	}

	booking, err := event.Booking.ToBooking()
	if err != nil {
		return fmt.Errorf("decode booking %d: %w", event.Booking.ID, err)
	}

	inserted, err := p.projection.Upsert(ctx, &booking)
	if err != nil {
		return fmt.Errorf("project booking %d: %w", booking.ID, err)
	}
	if inserted {
		p.log.Info("booking projected", zap.Int64("id", booking.ID), zap.String("seat", booking.SeatNo))
	}
	return nil
}

// Reconcile re-projects the whole ledger and returns how many bookings were
// missing from the projection. The projection only ever receives ledger
// records, so matching row counts mean nothing is missing.
func (p *Projector) Reconcile(ctx context.Context) (int, error) {
	bookings, err := p.ledger.ListBookings(ctx)
	if err != nil {
		return 0, err
	}
	if len(bookings) == 0 {
		return 0, nil
	}

	projected, err := p.projection.Count(ctx)
	if err != nil {
		p.log.Warn("count projected bookings", zap.Error(err))
	} else if projected >= len(bookings) {
		return 0, nil
	}

	missing, err := p.projection.UpsertAll(ctx, bookings)
	if err != nil {
		return 0, fmt.Errorf("reconcile projection: %w", err)
	}
	if missing > 0 {
		p.log.Warn("projection was behind the ledger", zap.Int("missing", missing), zap.Int("ledger", len(bookings)))
	}
	return missing, nil
}
