package domain

import "github.com/shopspring/decimal"

type CabinClass string

const (
	CabinEconomy  CabinClass = "Economy"
	CabinBusiness CabinClass = "Business"
	CabinFirst    CabinClass = "First Class"
)

type SeatPreference string

const (
	PreferenceWindow SeatPreference = "Window"
	PreferenceMiddle SeatPreference = "Middle"
	PreferenceAisle  SeatPreference = "Aisle"
)

type Seat struct {
	ID         string
	Class      CabinClass
	Price      decimal.Decimal
	Preference SeatPreference
}

// SeatStatus is a catalog seat together with its booked flag.
type SeatStatus struct {
	Seat
	Booked bool
}
