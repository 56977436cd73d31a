package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrValidation.Error(), "fields": verr.Fields})
	case errors.Is(err, domain.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid seat"})
	case errors.Is(err, domain.ErrSeatAlreadyBooked):
		c.JSON(http.StatusConflict, gin.H{"error": "Seat already booked"})
	case errors.Is(err, domain.ErrLedgerBusy):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
