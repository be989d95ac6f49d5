package api

import (
	"net/http"
	"time"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	FlightID      int64                    `json:"flight_id"`
	Seats         int                      `json:"seats"`
	Passengers    []booking.PassengerInput `json:"passengers"`
	PaymentMethod string                   `json:"payment_method"`
}

type bookingResponse struct {
	PNR         string             `json:"pnr"`
	FlightID    int64              `json:"flight_id"`
	SeatsBooked int                `json:"seats_booked"`
	TotalPrice  float64            `json:"total_price"`
	Currency    string             `json:"currency"`
	Status      string             `json:"status"`
	Passengers  []domain.Passenger `json:"passengers,omitempty"`
	CreatedAt   string             `json:"created_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:pnr", h.get)
	router.DELETE("/:pnr", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	confirmation, err := h.service.BookFlight(c.Request.Context(), booking.BookFlightInput{
		FlightID:      req.FlightID,
		Seats:         req.Seats,
		Passengers:    req.Passengers,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, confirmation)
}

func (h *BookingHandler) get(c *gin.Context) {
	pnr := c.Param("pnr")
	found, err := h.service.GetBooking(c.Request.Context(), pnr)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookingResponse{
		PNR:         found.PNR,
		FlightID:    found.FlightID,
		SeatsBooked: found.SeatsBooked,
		TotalPrice:  found.TotalPrice,
		Currency:    found.Currency,
		Status:      string(found.Status),
		Passengers:  found.Passengers,
		CreatedAt:   found.CreatedAt.Format(time.RFC3339),
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	pnr := c.Param("pnr")
	result, err := h.service.CancelBooking(c.Request.Context(), pnr)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
