package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightledger/internal/service/booking"
)

// createBookingRequest accepts numeric fields either as JSON numbers or as
// the strings HTML form values produce.
type createBookingRequest struct {
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	Gender        string  `json:"gender"`
	Meal          flexInt `json:"meal"`
	Wheelchair    bool    `json:"wheelchair"`
	Luggage       flexInt `json:"luggage"`
	SeatNo        string  `json:"seatNo"`
	PaymentMethod flexInt `json:"paymentMethod"`
}

func (r createBookingRequest) toInput() booking.CreateBookingInput {
	input := booking.CreateBookingInput{
		Name:          r.Name,
		Phone:         r.Phone,
		Email:         r.Email,
		Gender:        r.Gender,
		Meal:          r.Meal.ptr(),
		Wheelchair:    r.Wheelchair,
		SeatNo:        r.SeatNo,
		PaymentMethod: r.PaymentMethod.ptr(),
	}
	if r.Luggage.set {
		input.LuggageKg = r.Luggage.value
	}
	return input
}

type flexInt struct {
	value int
	set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return nil
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	f.value, f.set = n, true
	return nil
}

func (f flexInt) ptr() *int {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}
