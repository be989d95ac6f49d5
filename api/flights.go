package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightResponse struct {
	ID              int64   `json:"id"`
	FlightNumber    string  `json:"flight_number"`
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	DepartureTime   string  `json:"departure_time"`
	ArrivalTime     string  `json:"arrival_time"`
	DurationMinutes int     `json:"duration_minutes"`
	TotalSeats      int     `json:"total_seats"`
	AvailableSeats  int     `json:"available_seats"`
	BasePrice       float64 `json:"base_price"`
	DynamicPrice    float64 `json:"dynamic_price"`
	Currency        string  `json:"currency"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.search)
	router.GET("/:id", h.get)
	router.GET("/:id/price", h.quote)
}

func (h *FlightHandler) search(c *gin.Context) {
	query := flights.SearchQuery{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		SortBy:      c.DefaultQuery("sort_by", flights.SortByPrice),
		Order:       c.DefaultQuery("order", flights.OrderAsc),
	}
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
			return
		}
		query.DepartureDate = parsed
	}

	results, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]flightResponse, 0, len(results))
	for i := range results {
		resp = append(resp, toFlightResponse(&results[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) quote(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	price, err := h.service.QuotePrice(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flight_id": id, "price": price})
}

func toFlightResponse(f *flights.PricedFlight) flightResponse {
	return flightResponse{
		ID:              f.ID,
		FlightNumber:    f.FlightNumber,
		Origin:          f.OriginAirport,
		Destination:     f.DestAirport,
		DepartureTime:   f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:     f.ArrivalTime.Format(time.RFC3339),
		DurationMinutes: f.DurationMinutes,
		TotalSeats:      f.TotalSeats,
		AvailableSeats:  f.AvailableSeats,
		BasePrice:       f.BasePrice,
		DynamicPrice:    f.DynamicPrice,
		Currency:        f.Currency,
	}
}
