package repository

import (
	"context"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingProjection mirrors ledger records into Postgres for reporting.
// The ledger file stays the source of truth.
type BookingProjection interface {
	Upsert(ctx context.Context, booking *domain.Booking) (bool, error)
	UpsertAll(ctx context.Context, bookings []domain.Booking) (int, error)
	Count(ctx context.Context) (int, error)
}

type PGBookingProjection struct {
	db *pgxpool.Pool
}

func NewBookingProjection(db *pgxpool.Pool) BookingProjection {
	return &PGBookingProjection{db: db}
}

const insertBookingSQL = `INSERT INTO bookings (id, name, phone, email, gender, meal, wheelchair, luggage_kg, seat_no, booked_at, payment_method, amount)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO NOTHING`

// Upsert inserts the booking unless a row with its id exists. It reports
// whether a row was written.
func (r *PGBookingProjection) Upsert(ctx context.Context, b *domain.Booking) (bool, error) {
	tag, err := r.db.Exec(ctx, insertBookingSQL, bookingArgs(b)...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpsertAll projects every booking in one transaction and returns the
// number of rows that were missing.
func (r *PGBookingProjection) UpsertAll(ctx context.Context, bookings []domain.Booking) (int, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i := range bookings {
		batch.Queue(insertBookingSQL, bookingArgs(&bookings[i])...)
	}

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range bookings {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, err
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, err
	}

	return inserted, tx.Commit(ctx)
}

func (r *PGBookingProjection) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func bookingArgs(b *domain.Booking) []any {
	return []any{
		b.ID, b.Name, b.Phone, b.Email, b.Gender, b.Meal, b.Wheelchair,
		b.LuggageKg, b.SeatNo, b.BookedAt, b.PaymentMethod, b.Amount.String(),
	}
}

var _ BookingProjection = (*PGBookingProjection)(nil)
