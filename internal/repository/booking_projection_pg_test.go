package repository

import (
	"testing"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewBookingProjection(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingProjection(pool)
	assert.NotNil(t, repo)
}

func TestBookingArgs(t *testing.T) {
	bookedAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	b := &domain.Booking{
		ID: 7, Name: "Ann", Phone: "5550001111", Email: "ann@example.com", Gender: "F",
		Meal: 2, Wheelchair: true, LuggageKg: 23, SeatNo: "9A", BookedAt: bookedAt,
		PaymentMethod: 1, Amount: decimal.RequireFromString("630"),
	}

	args := bookingArgs(b)
	assert.Len(t, args, recordFields)
	assert.Equal(t, int64(7), args[0])
	assert.Equal(t, "9A", args[8])
	assert.Equal(t, bookedAt, args[9])
	assert.Equal(t, "630", args[11])
}
