package api

import (
	"net/http"

	"github.com/Domenick1991/flightledger/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightInfoResponse struct {
	FlightNo string `json:"flightNo"`
	Src      string `json:"src"`
	Dest     string `json:"dest"`
	DepTime  string `json:"depTime"`
	ArrTime  string `json:"arrTime"`
}

type seatResponse struct {
	ID     string  `json:"id"`
	Class  string  `json:"class"`
	Price  float64 `json:"price"`
	Pref   string  `json:"pref"`
	Booked bool    `json:"booked"`
}

type statsResponse struct {
	Revenue    float64 `json:"revenue"`
	Occupancy  int     `json:"occupancy"`
	TotalSeats int     `json:"total_seats"`
}

type overviewResponse struct {
	Info  flightInfoResponse `json:"info"`
	Seats []seatResponse     `json:"seats"`
	Stats statsResponse      `json:"stats"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flight-info", h.overview)
}

func (h *FlightHandler) overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := overviewResponse{
		Info: flightInfoResponse{
			FlightNo: overview.Info.FlightNo,
			Src:      overview.Info.From,
			Dest:     overview.Info.To,
			DepTime:  overview.Info.DepartureTime,
			ArrTime:  overview.Info.ArrivalTime,
		},
		Seats: make([]seatResponse, 0, len(overview.Seats)),
		Stats: statsResponse{
			Revenue:    overview.Stats.Revenue.InexactFloat64(),
			Occupancy:  overview.Stats.Occupancy,
			TotalSeats: overview.Stats.TotalSeats,
		},
	}
	for _, s := range overview.Seats {
		resp.Seats = append(resp.Seats, seatResponse{
			ID:     s.ID,
			Class:  string(s.Class),
			Price:  s.Price.InexactFloat64(),
			Pref:   string(s.Preference),
			Booked: s.Booked,
		})
	}
	c.JSON(http.StatusOK, resp)
}
