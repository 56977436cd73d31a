// Package inventory builds the fixed seat catalog of the flight.
package inventory

import (
	"strconv"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/shopspring/decimal"
)

type position struct {
	letter     string
	preference domain.SeatPreference
}

type cabin struct {
	class    domain.CabinClass
	price    int64
	firstRow int
	lastRow  int
	layout   []position
}

var cabins = []cabin{
	{
		class: domain.CabinEconomy, price: 100, firstRow: 1, lastRow: 5,
		layout: []position{
			{"A", domain.PreferenceWindow},
			{"B", domain.PreferenceMiddle},
			{"C", domain.PreferenceAisle},
			{"D", domain.PreferenceWindow},
		},
	},
	{
		class: domain.CabinBusiness, price: 300, firstRow: 6, lastRow: 8,
		layout: []position{
			{"A", domain.PreferenceWindow},
			{"B", domain.PreferenceAisle},
			{"C", domain.PreferenceWindow},
		},
	},
	{
		class: domain.CabinFirst, price: 600, firstRow: 9, lastRow: 10,
		layout: []position{
			{"A", domain.PreferenceWindow},
			{"B", domain.PreferenceAisle},
		},
	},
}

// Build returns the seat catalog in row-major order.
func Build() []domain.Seat {
	seats := make([]domain.Seat, 0, 33)
	for _, c := range cabins {
		price := decimal.NewFromInt(c.price)
		for row := c.firstRow; row <= c.lastRow; row++ {
			for _, p := range c.layout {
				seats = append(seats, domain.Seat{
					ID:         strconv.Itoa(row) + p.letter,
					Class:      c.class,
					Price:      price,
					Preference: p.preference,
				})
			}
		}
	}
	return seats
}

// Inventory is the read-only catalog shared by the ledger and the reports.
type Inventory struct {
	seats []domain.Seat
	byID  map[string]int
}

func New() *Inventory {
	seats := Build()
	byID := make(map[string]int, len(seats))
	for i, s := range seats {
		byID[s.ID] = i
	}
	return &Inventory{seats: seats, byID: byID}
}

func (inv *Inventory) Find(id string) (domain.Seat, bool) {
	i, ok := inv.byID[id]
	if !ok {
		return domain.Seat{}, false
	}
	return inv.seats[i], true
}

// Seats returns a copy of the catalog in its original order.
func (inv *Inventory) Seats() []domain.Seat {
	out := make([]domain.Seat, len(inv.seats))
	copy(out, inv.seats)
	return out
}

func (inv *Inventory) Len() int {
	return len(inv.seats)
}
