package domain

import "github.com/shopspring/decimal"

type Flight struct {
	FlightNo      string
	From          string
	To            string
	DepartureTime string
	ArrivalTime   string
}

type FlightStats struct {
	Revenue    decimal.Decimal
	Occupancy  int
	TotalSeats int
}

// FlightOverview is the seat map of the flight as seen by the booking page.
type FlightOverview struct {
	Info  Flight
	Seats []SeatStatus
	Stats FlightStats
}

type ClassReport struct {
	Class    CabinClass
	Bookings int
	Revenue  decimal.Decimal
}

type Report struct {
	TotalRevenue     decimal.Decimal
	Occupancy        int
	TotalSeats       int
	OccupancyPercent decimal.Decimal
	ByClass          []ClassReport
	Meals            map[string]int
}
