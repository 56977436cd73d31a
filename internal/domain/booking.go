package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoSeat marks a booking record that has no physical seat attached.
const NoSeat = "NONE"

// BookingTimeLayout is the textual form of Booking.BookedAt in the ledger.
const BookingTimeLayout = "2006-01-02 15:04:05"

type Booking struct {
	ID            int64
	Name          string
	Phone         string
	Email         string
	Gender        string
	Meal          int
	Wheelchair    bool
	LuggageKg     int
	SeatNo        string
	BookedAt      time.Time
	PaymentMethod int
	Amount        decimal.Decimal
}

// HasSeat reports whether the booking occupies a real seat.
func (b Booking) HasSeat() bool {
	return b.SeatNo != NoSeat
}

type Meal int

const (
	MealVegetarian Meal = iota
	MealNonVeg
	MealVegan
	MealNone
)

func (m Meal) String() string {
	switch m {
	case MealVegetarian:
		return "Vegetarian"
	case MealNonVeg:
		return "Non-Veg"
	case MealVegan:
		return "Vegan"
	default:
		return "No Meal"
	}
}

type PaymentMethod int

const (
	PaymentCreditCard PaymentMethod = iota
	PaymentDebitCard
	PaymentUPI
	PaymentCash
)

func (p PaymentMethod) String() string {
	switch p {
	case PaymentCreditCard:
		return "Credit Card"
	case PaymentDebitCard:
		return "Debit Card"
	case PaymentUPI:
		return "UPI"
	case PaymentCash:
		return "Cash"
	default:
		return "Unknown"
	}
}
