package kafka

import (
	"fmt"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/shopspring/decimal"
)

// ToBooking converts the payload back into a ledger record.
func (p BookingPayload) ToBooking() (domain.Booking, error) {
	bookedAt, err := time.ParseInLocation(domain.BookingTimeLayout, p.BookingTime, time.Local)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("booking time: %w", err)
	}
	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("amount: %w", err)
	}
	return domain.Booking{
		ID:            p.ID,
		Name:          p.Name,
		Phone:         p.Phone,
		Email:         p.Email,
		Gender:        p.Gender,
		Meal:          p.Meal,
		Wheelchair:    p.Wheelchair,
		LuggageKg:     p.LuggageKg,
		SeatNo:        p.SeatNo,
		BookedAt:      bookedAt,
		PaymentMethod: p.PaymentMethod,
		Amount:        amount,
	}, nil
}
