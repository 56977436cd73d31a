package api

import (
	"net/http"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	Gender        string  `json:"gender"`
	Meal          int     `json:"meal"`
	MealLabel     string  `json:"mealLabel"`
	Wheelchair    bool    `json:"wheelchair"`
	Luggage       int     `json:"luggage"`
	SeatNo        string  `json:"seatNo"`
	BookingTime   string  `json:"bookingTime"`
	PaymentMethod int     `json:"paymentMethod"`
	PaymentLabel  string  `json:"paymentLabel"`
	Amount        float64 `json:"amount"`
}

type createBookingResponse struct {
	Success bool            `json:"success"`
	Booking bookingResponse `json:"booking"`
}

type classReportResponse struct {
	Class    string  `json:"class"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type reportResponse struct {
	Revenue          float64               `json:"revenue"`
	Occupancy        int                   `json:"occupancy"`
	TotalSeats       int                   `json:"total_seats"`
	OccupancyPercent float64               `json:"occupancy_percent"`
	ByClass          []classReportResponse `json:"by_class"`
	Meals            map[string]int        `json:"meals"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.list)
	router.GET("/bookings/search", h.search)
	router.POST("/book", h.create)
	router.GET("/reports", h.report)
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) search(c *gin.Context) {
	bookings, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createBookingResponse{Success: true, Booking: toBookingResponse(*created)})
}

func (h *BookingHandler) report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := reportResponse{
		Revenue:          report.TotalRevenue.InexactFloat64(),
		Occupancy:        report.Occupancy,
		TotalSeats:       report.TotalSeats,
		OccupancyPercent: report.OccupancyPercent.InexactFloat64(),
		ByClass:          make([]classReportResponse, 0, len(report.ByClass)),
		Meals:            report.Meals,
	}
	for _, cr := range report.ByClass {
		resp.ByClass = append(resp.ByClass, classReportResponse{
			Class:    string(cr.Class),
			Bookings: cr.Bookings,
			Revenue:  cr.Revenue.InexactFloat64(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		Name:          b.Name,
		Phone:         b.Phone,
		Email:         b.Email,
		Gender:        b.Gender,
		Meal:          b.Meal,
		MealLabel:     domain.Meal(b.Meal).String(),
		Wheelchair:    b.Wheelchair,
		Luggage:       b.LuggageKg,
		SeatNo:        b.SeatNo,
		BookingTime:   b.BookedAt.Format(domain.BookingTimeLayout),
		PaymentMethod: b.PaymentMethod,
		PaymentLabel:  domain.PaymentMethod(b.PaymentMethod).String(),
		Amount:        b.Amount.InexactFloat64(),
	}
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}
