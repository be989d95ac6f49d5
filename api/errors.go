package api

import (
	"errors"
	"net/http"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps each business error kind to a stable HTTP status so
// clients can rely on the code, not on message text.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrFlightNotFound), errors.Is(err, domain.ErrBookingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientSeats), errors.Is(err, domain.ErrAlreadyCancelled):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
