package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/inventory"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// FreeLuggageKg is the luggage allowance included in every fare.
	FreeLuggageKg = 20
	lockPollEvery = 25 * time.Millisecond
)

var errIDSpaceExhausted = errors.New("booking id space exhausted")

// LuggageSurchargePerKg is charged for every kilogram above FreeLuggageKg.
var LuggageSurchargePerKg = decimal.NewFromInt(10)

type BookingUseCase interface {
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Search(ctx context.Context, query string) ([]domain.Booking, error)
	Report(ctx context.Context) (*domain.Report, error)
}

// Cache is the shared Redis state the ledger touches: a lock that serializes
// writers across processes and the cached flight overview.
type Cache interface {
	AcquireLedgerLock(ctx context.Context, ttl time.Duration) (string, bool, error)
	ReleaseLedgerLock(ctx context.Context, token string) error
	InvalidateOverview(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	mu    sync.RWMutex
	store repository.BookingStore
	seats *inventory.Inventory

	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	lockTTL            time.Duration
	lockWait           time.Duration

	validate *validator.Validate
	now      func() time.Time
	log      *zap.Logger
}

type CreateBookingInput struct {
	Name          string `json:"name" validate:"required,ledgersafe"`
	Phone         string `json:"phone" validate:"required,ledgersafe"`
	Email         string `json:"email" validate:"required,ledgersafe"`
	Gender        string `json:"gender" validate:"required,ledgersafe"`
	Meal          *int   `json:"meal" validate:"required"`
	Wheelchair    bool   `json:"wheelchair"`
	LuggageKg     int    `json:"luggage" validate:"min=0"`
	SeatNo        string `json:"seatNo" validate:"required,ledgersafe"`
	PaymentMethod *int   `json:"paymentMethod" validate:"required"`
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache, lockTTL, lockWait time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
		s.lockTTL = lockTTL
		s.lockWait = lockWait
	}
}

func WithProducer(producer Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithLogger(log *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewBookingService(store repository.BookingStore, seats *inventory.Inventory, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		store:    store,
		seats:    seats,
		validate: newValidator(),
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	service.log = service.log.Named("booking")
	return service
}

func (s *BookingService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.Load(ctx)
}

// CreateBooking runs the whole read-check-rewrite cycle under the ledger
// lock, so concurrent callers always see each other's bookings.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	release, err := s.lockLedger(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.Lock()
	booking, err := s.create(ctx, input)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.Int64("id", booking.ID),
		zap.String("seat", booking.SeatNo),
		zap.String("amount", booking.Amount.String()),
	)

	if s.cache != nil {
		if err := s.cache.InvalidateOverview(ctx); err != nil {
			s.log.Warn("invalidate overview cache", zap.Error(err))
		}
	}
	if err := s.publish(ctx, kafka.EventBookingCreated, booking); err != nil {
		s.log.Warn("publish booking event", zap.Int64("id", booking.ID), zap.Error(err))
	}
	return booking, nil
}

func (s *BookingService) create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	bookings, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, b := range bookings {
		if b.ID > maxID {
			maxID = b.ID
		}
		if b.SeatNo == input.SeatNo {
			return nil, fmt.Errorf("%w: %s", domain.ErrSeatAlreadyBooked, input.SeatNo)
		}
	}
	if maxID == math.MaxInt64 {
		return nil, &domain.StorageError{Op: "assign id", Path: "ledger", Err: errIDSpaceExhausted}
	}
	nextID := maxID + 1

	seat, ok := s.seats.Find(input.SeatNo)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSeatNotFound, input.SeatNo)
	}

	booking := domain.Booking{
		ID:            nextID,
		Name:          input.Name,
		Phone:         input.Phone,
		Email:         input.Email,
		Gender:        input.Gender,
		Meal:          *input.Meal,
		Wheelchair:    input.Wheelchair,
		LuggageKg:     input.LuggageKg,
		SeatNo:        seat.ID,
		BookedAt:      s.now().Truncate(time.Second),
		PaymentMethod: *input.PaymentMethod,
		Amount:        Fare(seat, input.LuggageKg),
	}

	if err := s.store.Save(ctx, append(bookings, booking)); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Fare is the seat price plus the surcharge for luggage above the allowance.
func Fare(seat domain.Seat, luggageKg int) decimal.Decimal {
	price := seat.Price
	if luggageKg > FreeLuggageKg {
		excess := decimal.NewFromInt(int64(luggageKg - FreeLuggageKg))
		price = price.Add(excess.Mul(LuggageSurchargePerKg))
	}
	return price
}

// Search matches a booking id exactly, or a substring of name or phone.
func (s *BookingService) Search(ctx context.Context, query string) ([]domain.Booking, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{"q": "This field is required"}}
	}

	bookings, err := s.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	found := make([]domain.Booking, 0)
	for _, b := range bookings {
		if strconv.FormatInt(b.ID, 10) == query ||
			strings.Contains(b.Name, query) ||
			strings.Contains(b.Phone, query) {
			found = append(found, b)
		}
	}
	return found, nil
}

func (s *BookingService) Report(ctx context.Context) (*domain.Report, error) {
	bookings, err := s.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(bookings, s.seats), nil
}

func (s *BookingService) lockLedger(ctx context.Context) (func(), error) {
	if s.cache == nil {
		return func() {}, nil
	}

	waitCtx := ctx
	if s.lockWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.lockWait)
		defer cancel()
	}

	for {
		token, ok, err := s.cache.AcquireLedgerLock(waitCtx, s.lockTTL)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, domain.ErrLedgerBusy
			}
			return nil, fmt.Errorf("acquire ledger lock: %w", err)
		}
		if ok {
			return func() {
				if err := s.cache.ReleaseLedgerLock(context.WithoutCancel(ctx), token); err != nil {
					s.log.Warn("release ledger lock", zap.Error(err))
				}
			}, nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, domain.ErrLedgerBusy
		case <-time.After(lockPollEvery):
		}
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.NewBookingEvent(eventType, booking)
	key := strconv.FormatInt(booking.ID, 10)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
