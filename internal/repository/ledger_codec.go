package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	fieldSeparator = "|"
	recordFields   = 12
)

func encodeBooking(b domain.Booking) string {
	wheelchair := "0"
	if b.Wheelchair {
		wheelchair = "1"
	}
	return strings.Join([]string{
		strconv.FormatInt(b.ID, 10),
		b.Name,
		b.Phone,
		b.Email,
		b.Gender,
		strconv.Itoa(b.Meal),
		wheelchair,
		strconv.Itoa(b.LuggageKg),
		b.SeatNo,
		b.BookedAt.Format(domain.BookingTimeLayout),
		strconv.Itoa(b.PaymentMethod),
		formatAmount(b.Amount),
	}, fieldSeparator)
}

func decodeBooking(line string) (domain.Booking, error) {
	parts := strings.Split(line, fieldSeparator)
	if len(parts) != recordFields {
		return domain.Booking{}, fmt.Errorf("expected %d fields, got %d", recordFields, len(parts))
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("id: %w", err)
	}
	meal, err := strconv.Atoi(parts[5])
	if err != nil {
		return domain.Booking{}, fmt.Errorf("meal: %w", err)
	}
	luggage, err := strconv.Atoi(parts[7])
	if err != nil {
		return domain.Booking{}, fmt.Errorf("luggage: %w", err)
	}
	bookedAt, err := time.ParseInLocation(domain.BookingTimeLayout, parts[9], time.Local)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("booking time: %w", err)
	}
	payment, err := strconv.Atoi(parts[10])
	if err != nil {
		return domain.Booking{}, fmt.Errorf("payment method: %w", err)
	}
	amount, err := decimal.NewFromString(parts[11])
	if err != nil {
		return domain.Booking{}, fmt.Errorf("amount: %w", err)
	}

	return domain.Booking{
		ID:            id,
		Name:          parts[1],
		Phone:         parts[2],
		Email:         parts[3],
		Gender:        parts[4],
		Meal:          meal,
		Wheelchair:    parts[6] == "1",
		LuggageKg:     luggage,
		SeatNo:        parts[8],
		BookedAt:      bookedAt,
		PaymentMethod: payment,
		Amount:        amount,
	}, nil
}

// formatAmount keeps one fractional digit on whole amounts ("150.0"), the
// form existing ledger files already use.
func formatAmount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(1)
	}
	return d.String()
}
