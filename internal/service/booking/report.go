package booking

import (
	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/inventory"
	"github.com/shopspring/decimal"
)

var reportClasses = []domain.CabinClass{domain.CabinEconomy, domain.CabinBusiness, domain.CabinFirst}

// Summarize computes revenue and occupancy over the full booking set.
// Bookings without a seat count toward revenue only.
func Summarize(bookings []domain.Booking, seats *inventory.Inventory) *domain.Report {
	report := &domain.Report{
		TotalRevenue:     decimal.Zero,
		TotalSeats:       seats.Len(),
		OccupancyPercent: decimal.Zero,
		Meals: map[string]int{
			domain.MealVegetarian.String(): 0,
			domain.MealNonVeg.String():     0,
			domain.MealVegan.String():      0,
			domain.MealNone.String():       0,
		},
	}

	byClass := make(map[domain.CabinClass]*domain.ClassReport, len(reportClasses))
	for _, c := range reportClasses {
		byClass[c] = &domain.ClassReport{Class: c, Revenue: decimal.Zero}
	}

	for _, b := range bookings {
		report.TotalRevenue = report.TotalRevenue.Add(b.Amount)
		if b.Meal >= int(domain.MealVegetarian) && b.Meal <= int(domain.MealNone) {
			report.Meals[domain.Meal(b.Meal).String()]++
		}
		if !b.HasSeat() {
			continue
		}
		report.Occupancy++
		if seat, ok := seats.Find(b.SeatNo); ok {
			cr := byClass[seat.Class]
			cr.Bookings++
			cr.Revenue = cr.Revenue.Add(b.Amount)
		}
	}

	for _, c := range reportClasses {
		report.ByClass = append(report.ByClass, *byClass[c])
	}
	if report.TotalSeats > 0 {
		report.OccupancyPercent = decimal.NewFromInt(int64(report.Occupancy)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(report.TotalSeats))).
			Round(2)
	}
	return report
}

// BookedSeats returns the set of seat numbers held by bookings.
func BookedSeats(bookings []domain.Booking) map[string]bool {
	booked := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if b.HasSeat() {
			booked[b.SeatNo] = true
		}
	}
	return booked
}
