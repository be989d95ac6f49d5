package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) BookFlight(ctx context.Context, input booking.BookFlightInput) (*booking.BookingConfirmation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingConfirmation), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, pnr string) (*booking.CancelResult, error) {
	args := m.Called(ctx, pnr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.CancelResult), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, pnr string) (*domain.Booking, error) {
	args := m.Called(ctx, pnr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

const createBody = `{"flight_id":4,"seats":2,"passengers":[{"name":"Alice Demo","age":28},{"name":"Bob Demo","age":30}]}`

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", strings.NewReader(createBody))
	c.Request.Header.Set("Content-Type", "application/json")

	confirmation := &booking.BookingConfirmation{
		PNR: "BRAB12CD34", FlightID: 4, SeatsBooked: 2,
		UnitPrice: 8750, TotalPrice: 17500, Currency: "INR",
	}
	mockService.On("BookFlight", c.Request.Context(), mock.AnythingOfType("booking.BookFlightInput")).
		Return(confirmation, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"pnr":"BRAB12CD34"`)
	assert.Contains(t, w.Body.String(), `"total_price":17500`)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_validationError(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", strings.NewReader(`{"flight_id":4,"seats":2,"passengers":[{"name":"Alice Demo","age":28}]}`))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("BookFlight", c.Request.Context(), mock.Anything).
		Return(nil, &domain.ValidationError{Field: "passengers", Reason: "passenger count must equal seats"})

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_create_insufficientSeats(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", strings.NewReader(createBody))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("BookFlight", c.Request.Context(), mock.Anything).
		Return(nil, domain.ErrInsufficientSeats)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_create_flightNotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", strings.NewReader(createBody))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("BookFlight", c.Request.Context(), mock.Anything).
		Return(nil, domain.ErrFlightNotFound)

	handler.create(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_create_malformedJSON(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", strings.NewReader(`{"flight_id":`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "BookFlight")
}

func TestBookingHandler_get(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "pnr", Value: "BRAB12CD34"}}
	c.Request = httptest.NewRequest("GET", "/bookings/BRAB12CD34", nil)

	found := &domain.Booking{
		ID: 1, PNR: "BRAB12CD34", FlightID: 4, SeatsBooked: 2, TotalPrice: 17500,
		Currency: "INR", Status: domain.BookingStatusConfirmed,
		Passengers: []domain.Passenger{{Name: "Alice Demo", Age: 28}, {Name: "Bob Demo", Age: 30}},
	}
	mockService.On("GetBooking", c.Request.Context(), "BRAB12CD34").Return(found, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"CONFIRMED"`)
}

func TestBookingHandler_get_notFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "pnr", Value: "BRUNKNOWN1"}}
	c.Request = httptest.NewRequest("GET", "/bookings/BRUNKNOWN1", nil)

	mockService.On("GetBooking", c.Request.Context(), "BRUNKNOWN1").Return(nil, domain.ErrBookingNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "pnr", Value: "BRAB12CD34"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/BRAB12CD34", nil)

	result := &booking.CancelResult{PNR: "BRAB12CD34", SeatsRefunded: 2, AmountRefunded: 17500}
	mockService.On("CancelBooking", c.Request.Context(), "BRAB12CD34").Return(result, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"seats_refunded":2`)
}

func TestBookingHandler_cancel_alreadyCancelled(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "pnr", Value: "BRAB12CD34"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/BRAB12CD34", nil)

	mockService.On("CancelBooking", c.Request.Context(), "BRAB12CD34").Return(nil, domain.ErrAlreadyCancelled)

	handler.cancel(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}
