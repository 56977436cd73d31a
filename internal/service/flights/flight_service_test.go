package flights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingLister struct {
	mock.Mock
}

func (m *MockBookingLister) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetOverview(ctx context.Context) (*domain.FlightOverview, int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*domain.FlightOverview), args.Get(1).(int64), args.Error(2)
}

func (m *MockCache) SetOverview(ctx context.Context, overview *domain.FlightOverview, generation int64) (bool, error) {
	args := m.Called(ctx, overview, generation)
	return args.Bool(0), args.Error(1)
}

// memCache mimics the generation check of the Redis overview cache.
type memCache struct {
	mu         sync.Mutex
	overview   *domain.FlightOverview
	generation int64
}

func (c *memCache) GetOverview(context.Context) (*domain.FlightOverview, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overview, c.generation, nil
}

func (c *memCache) SetOverview(_ context.Context, overview *domain.FlightOverview, generation int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false, nil
	}
	c.overview = overview
	return true, nil
}

func (c *memCache) InvalidateOverview(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.overview = nil
	return nil
}

// bookingDuringRead lists a snapshot and then lets a booking commit before
// the caller gets the result back.
type bookingDuringRead struct {
	snapshot []domain.Booking
	commit   func()
	calls    int
}

func (l *bookingDuringRead) ListBookings(context.Context) ([]domain.Booking, error) {
	l.calls++
	if l.calls == 1 && l.commit != nil {
		defer l.commit()
	}
	return l.snapshot, nil
}

var testFlight = domain.Flight{
	FlightNo:      "AI101",
	From:          "New York",
	To:            "Los Angeles",
	DepartureTime: "10:00 AM",
	ArrivalTime:   "1:30 PM",
}

func testBookings() []domain.Booking {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.Local)
	return []domain.Booking{
		{ID: 1, Name: "A", SeatNo: "1A", BookedAt: now, Amount: decimal.NewFromInt(150)},
		{ID: 2, Name: "B", SeatNo: "6C", BookedAt: now, Amount: decimal.NewFromInt(300)},
		{ID: 3, Name: "C", SeatNo: domain.NoSeat, BookedAt: now, Amount: decimal.NewFromInt(50)},
	}
}

func TestFlightService_Overview_CacheMiss(t *testing.T) {
	lister := &MockBookingLister{}
	cache := &MockCache{}
	service := NewFlightService(testFlight, inventory.New(), lister, cache, nil)
	ctx := context.Background()

	cache.On("GetOverview", ctx).Return(nil, int64(4), nil).Once()
	lister.On("ListBookings", ctx).Return(testBookings(), nil).Once()
	cache.On("SetOverview", ctx, mock.AnythingOfType("*domain.FlightOverview"), int64(4)).Return(true, nil).Once()

	overview, err := service.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, testFlight, overview.Info)
	assert.Len(t, overview.Seats, 33)
	assert.Equal(t, 2, overview.Stats.Occupancy)
	assert.Equal(t, 33, overview.Stats.TotalSeats)
	assert.True(t, decimal.NewFromInt(500).Equal(overview.Stats.Revenue))

	booked := map[string]bool{}
	for _, s := range overview.Seats {
		if s.Booked {
			booked[s.ID] = true
		}
	}
	assert.Equal(t, map[string]bool{"1A": true, "6C": true}, booked)
	assert.Equal(t, "1A", overview.Seats[0].ID)
	assert.Equal(t, "10B", overview.Seats[32].ID)

	cache.AssertExpectations(t)
	lister.AssertExpectations(t)
}

func TestFlightService_Overview_CacheHit(t *testing.T) {
	lister := &MockBookingLister{}
	cache := &MockCache{}
	service := NewFlightService(testFlight, inventory.New(), lister, cache, nil)
	ctx := context.Background()

	cached := &domain.FlightOverview{Info: testFlight, Stats: domain.FlightStats{Occupancy: 7, TotalSeats: 33}}
	cache.On("GetOverview", ctx).Return(cached, int64(0), nil).Once()

	overview, err := service.Overview(ctx)
	require.NoError(t, err)
	assert.Same(t, cached, overview)

	lister.AssertNotCalled(t, "ListBookings")
	cache.AssertNotCalled(t, "SetOverview")
}

func TestFlightService_Overview_CacheError(t *testing.T) {
	lister := &MockBookingLister{}
	cache := &MockCache{}
	service := NewFlightService(testFlight, inventory.New(), lister, cache, nil)
	ctx := context.Background()

	cache.On("GetOverview", ctx).Return(nil, int64(0), errors.New("cache error")).Once()
	lister.On("ListBookings", ctx).Return([]domain.Booking{}, nil).Once()

	overview, err := service.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, overview.Stats.Occupancy)
	assert.True(t, overview.Stats.Revenue.IsZero())

	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "SetOverview", mock.Anything, mock.Anything, mock.Anything)
	lister.AssertExpectations(t)
}

func TestFlightService_Overview_CacheWriteError(t *testing.T) {
	lister := &MockBookingLister{}
	cache := &MockCache{}
	service := NewFlightService(testFlight, inventory.New(), lister, cache, nil)
	ctx := context.Background()

	cache.On("GetOverview", ctx).Return(nil, int64(1), nil).Once()
	lister.On("ListBookings", ctx).Return(testBookings(), nil).Once()
	cache.On("SetOverview", ctx, mock.Anything, int64(1)).Return(false, errors.New("cache error")).Once()

	overview, err := service.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.Stats.Occupancy)

	cache.AssertExpectations(t)
}

func TestFlightService_Overview_BookingBetweenReadAndCacheWrite(t *testing.T) {
	cache := &memCache{}
	stale := testBookings()
	lister := &bookingDuringRead{snapshot: stale}
	lister.commit = func() {
		lister.snapshot = append(append([]domain.Booking{}, stale...),
			domain.Booking{ID: 4, Name: "D", SeatNo: "5A", Amount: decimal.NewFromInt(100)})
		require.NoError(t, cache.InvalidateOverview(context.Background()))
	}
	service := NewFlightService(testFlight, inventory.New(), lister, cache, nil)
	ctx := context.Background()

	first, err := service.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Stats.Occupancy)

	cached, generation, err := cache.GetOverview(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached, "overview built before the booking must not be cached")
	assert.Equal(t, int64(1), generation)

	second, err := service.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Stats.Occupancy)
	assert.Equal(t, 2, lister.calls)

	for _, s := range second.Seats {
		if s.ID == "5A" {
			assert.True(t, s.Booked)
		}
	}

	third, err := service.Overview(ctx)
	require.NoError(t, err)
	assert.Same(t, second, third)
	assert.Equal(t, 2, lister.calls)
}

func TestFlightService_Overview_LedgerError(t *testing.T) {
	lister := &MockBookingLister{}
	cache := &MockCache{}
	service := NewFlightService(testFlight, inventory.New(), lister, cache, nil)
	ctx := context.Background()

	expectedErr := &domain.StorageError{Op: "open", Path: "bookings.txt", Err: errors.New("permission denied")}
	cache.On("GetOverview", ctx).Return(nil, int64(0), nil).Once()
	lister.On("ListBookings", ctx).Return(nil, expectedErr).Once()

	overview, err := service.Overview(ctx)
	assert.Nil(t, overview)
	assert.ErrorIs(t, err, domain.ErrStorage)
	cache.AssertNotCalled(t, "SetOverview")
}

func TestFlightService_NoCache(t *testing.T) {
	lister := &MockBookingLister{}
	service := NewFlightService(testFlight, inventory.New(), lister, nil, nil)
	ctx := context.Background()

	lister.On("ListBookings", ctx).Return(testBookings(), nil).Once()

	overview, err := service.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.Stats.Occupancy)

	lister.AssertExpectations(t)
}
