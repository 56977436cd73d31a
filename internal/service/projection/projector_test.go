package projection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockProjection struct {
	mock.Mock
}

func (m *MockProjection) Upsert(ctx context.Context, booking *domain.Booking) (bool, error) {
	args := m.Called(ctx, booking)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjection) UpsertAll(ctx context.Context, bookings []domain.Booking) (int, error) {
	args := m.Called(ctx, bookings)
	return args.Int(0), args.Error(1)
}

func (m *MockProjection) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID: 3, Name: "Lee", Phone: "5550102030", Email: "lee@example.com", Gender: "Other",
		Meal: 2, LuggageKg: 10, SeatNo: "8A",
		BookedAt:      time.Date(2026, 7, 7, 7, 7, 7, 0, time.Local),
		PaymentMethod: 3, Amount: decimal.NewFromInt(300),
	}
}

func TestProjector_Apply(t *testing.T) {
	ledger := &MockLedger{}
	projection := &MockProjection{}
	projector := NewProjector(ledger, projection, nil)
	ctx := context.Background()

	event := kafka.NewBookingEvent(kafka.EventBookingCreated, sampleBooking())
	projection.On("Upsert", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.ID == 3 && b.SeatNo == "8A" && b.Amount.Equal(decimal.NewFromInt(300))
	})).Return(true, nil).Once()

	require.NoError(t, projector.Apply(ctx, event))
	projection.AssertExpectations(t)
}

func TestProjector_Apply_IgnoresOtherEvents(t *testing.T) {
	projection := &MockProjection{}
	projector := NewProjector(&MockLedger{}, projection, nil)

	event := kafka.NewBookingEvent("booking_viewed", sampleBooking())
	require.NoError(t, projector.Apply(context.Background(), event))
	projection.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestProjector_Apply_Errors(t *testing.T) {
	projection := &MockProjection{}
	projector := NewProjector(&MockLedger{}, projection, nil)
	ctx := context.Background()

	bad := kafka.NewBookingEvent(kafka.EventBookingCreated, sampleBooking())
	bad.Booking.Amount = "n/a"
	assert.Error(t, projector.Apply(ctx, bad))

	projection.On("Upsert", ctx, mock.Anything).Return(false, errors.New("db down")).Once()
	err := projector.Apply(ctx, kafka.NewBookingEvent(kafka.EventBookingCreated, sampleBooking()))
	assert.ErrorContains(t, err, "db down")
}

func TestProjector_Reconcile(t *testing.T) {
	ledger := &MockLedger{}
	projection := &MockProjection{}
	projector := NewProjector(ledger, projection, nil)
	ctx := context.Background()

	bookings := []domain.Booking{*sampleBooking()}
	ledger.On("ListBookings", ctx).Return(bookings, nil).Once()
	projection.On("Count", ctx).Return(0, nil).Once()
	projection.On("UpsertAll", ctx, bookings).Return(1, nil).Once()

	missing, err := projector.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, missing)

	ledger.AssertExpectations(t)
	projection.AssertExpectations(t)
}

func TestProjector_Reconcile_UpToDate(t *testing.T) {
	ledger := &MockLedger{}
	projection := &MockProjection{}
	projector := NewProjector(ledger, projection, nil)
	ctx := context.Background()

	ledger.On("ListBookings", ctx).Return([]domain.Booking{*sampleBooking()}, nil).Once()
	projection.On("Count", ctx).Return(1, nil).Once()

	missing, err := projector.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, missing)

	projection.AssertExpectations(t)
	projection.AssertNotCalled(t, "UpsertAll", mock.Anything, mock.Anything)
}

func TestProjector_Reconcile_CountErrorFallsBackToFullPass(t *testing.T) {
	ledger := &MockLedger{}
	projection := &MockProjection{}
	projector := NewProjector(ledger, projection, nil)
	ctx := context.Background()

	bookings := []domain.Booking{*sampleBooking()}
	ledger.On("ListBookings", ctx).Return(bookings, nil).Once()
	projection.On("Count", ctx).Return(0, errors.New("db down")).Once()
	projection.On("UpsertAll", ctx, bookings).Return(0, nil).Once()

	missing, err := projector.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, missing)
	projection.AssertExpectations(t)
}

func TestProjector_Reconcile_EmptyLedger(t *testing.T) {
	ledger := &MockLedger{}
	projection := &MockProjection{}
	projector := NewProjector(ledger, projection, nil)
	ctx := context.Background()

	ledger.On("ListBookings", ctx).Return([]domain.Booking{}, nil).Once()

	missing, err := projector.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, missing)
	projection.AssertNotCalled(t, "UpsertAll", mock.Anything, mock.Anything)
	projection.AssertNotCalled(t, "Count", mock.Anything)
}

func TestProjector_Reconcile_LedgerError(t *testing.T) {
	ledger := &MockLedger{}
	projector := NewProjector(ledger, &MockProjection{}, nil)
	ctx := context.Background()

	ledger.On("ListBookings", ctx).Return(nil, &domain.StorageError{Op: "read", Path: "x", Err: errors.New("io")}).Once()

	_, err := projector.Reconcile(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)
}
