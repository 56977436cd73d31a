package flights

import (
	"context"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/inventory"
	"github.com/Domenick1991/flightledger/internal/service/booking"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	Overview(ctx context.Context) (*domain.FlightOverview, error)
}

// BookingLister is the read side of the ledger.
type BookingLister interface {
	ListBookings(ctx context.Context) ([]domain.Booking, error)
}

// FlightCache keeps the overview next to a generation that every ledger
// write bumps. GetOverview returns nil on a miss together with the
// generation seen at that moment; SetOverview stores the overview only if
// the generation is still the same and reports whether it did.
type FlightCache interface {
	GetOverview(ctx context.Context) (*domain.FlightOverview, int64, error)
	SetOverview(ctx context.Context, overview *domain.FlightOverview, generation int64) (bool, error)
}

type FlightService struct {
	info     domain.Flight
	seats    *inventory.Inventory
	bookings BookingLister
	cache    FlightCache
	log      *zap.Logger
}

func NewFlightService(info domain.Flight, seats *inventory.Inventory, bookings BookingLister, cache FlightCache, log *zap.Logger) *FlightService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FlightService{info: info, seats: seats, bookings: bookings, cache: cache, log: log.Named("flights")}
}

func (s *FlightService) Overview(ctx context.Context) (*domain.FlightOverview, error) {
	var (
		generation int64
		cacheable  bool
	)
	if s.cache != nil {
		cached, gen, err := s.cache.GetOverview(ctx)
		switch {
		case err != nil:
			s.log.Warn("read overview cache", zap.Error(err))
		case cached != nil:
			return cached, nil
		default:
			generation, cacheable = gen, true
		}
	}

	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	report := booking.Summarize(bookings, s.seats)
	booked := booking.BookedSeats(bookings)

	catalog := s.seats.Seats()
	seats := make([]domain.SeatStatus, 0, len(catalog))
	for _, seat := range catalog {
		seats = append(seats, domain.SeatStatus{Seat: seat, Booked: booked[seat.ID]})
	}

	overview := &domain.FlightOverview{
		Info:  s.info,
		Seats: seats,
		Stats: domain.FlightStats{
			Revenue:    report.TotalRevenue,
			Occupancy:  report.Occupancy,
			TotalSeats: report.TotalSeats,
		},
	}

	if cacheable {
		stored, err := s.cache.SetOverview(ctx, overview, generation)
		switch {
		case err != nil:
			s.log.Warn("write overview cache", zap.Error(err))
		case !stored:
			s.log.Debug("ledger changed while building overview, not cached", zap.Int64("generation", generation))
		}
	}
	return overview, nil
}

var _ FlightUseCase = (*FlightService)(nil)
