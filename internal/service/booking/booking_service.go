package booking

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/kafka"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/pricing"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/repository"
	"github.com/google/uuid"
)

const (
	pnrPrefix        = "BR"
	maxPNRAttempts   = 5
	defaultPayMethod = "CARD"
)

type BookingUseCase interface {
	BookFlight(ctx context.Context, input BookFlightInput) (*BookingConfirmation, error)
	CancelBooking(ctx context.Context, pnr string) (*CancelResult, error)
	GetBooking(ctx context.Context, pnr string) (*domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	producer           Producer
	demand             pricing.DemandSampler
	now                pricing.Clock
	bookingTopic       string
	notificationsTopic string
}

type PassengerInput struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type BookFlightInput struct {
	FlightID      int64            `json:"flight_id"`
	Seats         int              `json:"seats"`
	Passengers    []PassengerInput `json:"passengers"`
	PaymentMethod string           `json:"payment_method"`
}

// BookingConfirmation is the explicit success result of a booking attempt.
// It is only ever produced after the booking, its passengers and its
// payment record are durable.
type BookingConfirmation struct {
	PNR         string  `json:"pnr"`
	FlightID    int64   `json:"flight_id"`
	SeatsBooked int     `json:"seats_booked"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	Currency    string  `json:"currency"`
}

type CancelResult struct {
	PNR            string  `json:"pnr"`
	SeatsRefunded  int     `json:"seats_refunded"`
	AmountRefunded float64 `json:"amount_refunded"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithClock(clock pricing.Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.now = clock
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	producer Producer,
	demand pricing.DemandSampler,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		producer:     producer,
		demand:       demand,
		now:          pricing.SystemClock,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// BookFlight runs the booking transaction: validate, price, reserve,
// persist. The seat reservation is the only contended step; if the
// persist that follows it fails, the reservation is released before the
// error is reported, so seats are never silently lost.
func (s *BookingService) BookFlight(ctx context.Context, input BookFlightInput) (*BookingConfirmation, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if flight.Departed(now) {
		return nil, &domain.ValidationError{Field: "flight_id", Reason: "flight has already departed"}
	}

	unitPrice, err := pricing.QuoteFlight(flight, s.demand.Sample(), now)
	if err != nil {
		return nil, err
	}
	totalPrice := round2(unitPrice * float64(input.Seats))

	if err := s.flights.ReserveSeats(ctx, input.FlightID, input.Seats); err != nil {
		return nil, err
	}

	booking, err := s.persistBooking(ctx, flight, input, totalPrice)
	if err != nil {
		// Compensating rollback: the reservation must not outlive the
		// failed persist.
		if relErr := s.flights.ReleaseSeats(ctx, input.FlightID, input.Seats); relErr != nil {
			log.Printf("failed to release %d seats on flight %d after persist failure: %v", input.Seats, input.FlightID, relErr)
		}
		return nil, err
	}

	if err := s.publish(ctx, "booking_created", booking); err != nil {
		log.Printf("failed to publish booking_created event for %s: %v", booking.PNR, err)
	}

	return &BookingConfirmation{
		PNR:         booking.PNR,
		FlightID:    booking.FlightID,
		SeatsBooked: booking.SeatsBooked,
		UnitPrice:   unitPrice,
		TotalPrice:  booking.TotalPrice,
		Currency:    booking.Currency,
	}, nil
}

func (s *BookingService) persistBooking(ctx context.Context, flight *domain.Flight, input BookFlightInput, totalPrice float64) (*domain.Booking, error) {
	passengers := make([]domain.Passenger, 0, len(input.Passengers))
	for _, p := range input.Passengers {
		passengers = append(passengers, domain.Passenger{Name: p.Name, Age: p.Age})
	}

	method := input.PaymentMethod
	if method == "" {
		method = defaultPayMethod
	}

	for attempt := 0; attempt < maxPNRAttempts; attempt++ {
		booking := &domain.Booking{
			PNR:         newPNR(),
			FlightID:    flight.ID,
			SeatsBooked: input.Seats,
			TotalPrice:  totalPrice,
			Currency:    flight.Currency,
			Passengers:  passengers,
			Payment: domain.Payment{
				Amount:         totalPrice,
				Currency:       flight.Currency,
				Method:         method,
				TransactionRef: newTransactionRef(),
				Status:         domain.PaymentStatusSuccess,
			},
		}

		err := s.bookings.Create(ctx, booking)
		if err == nil {
			return booking, nil
		}
		if errors.Is(err, repository.ErrDuplicatePNR) {
			continue
		}
		return nil, &domain.PersistenceError{Op: "create booking", Err: err}
	}
	return nil, &domain.PersistenceError{Op: "create booking", Err: repository.ErrDuplicatePNR}
}

// CancelBooking reverses a confirmed booking. The status flip and the seat
// release are one repository transaction; a booking that is already
// cancelled comes back as ErrAlreadyCancelled with no seat change, so
// repeated cancels cannot refund seats twice.
func (s *BookingService) CancelBooking(ctx context.Context, pnr string) (*CancelResult, error) {
	current, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingStatusConfirmed {
		return nil, domain.ErrAlreadyCancelled
	}

	cancelled, err := s.bookings.Cancel(ctx, pnr)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCancelled) || errors.Is(err, domain.ErrBookingNotFound) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "cancel booking", Err: err}
	}

	if err := s.publish(ctx, "booking_cancelled", cancelled); err != nil {
		log.Printf("failed to publish booking_cancelled event for %s: %v", cancelled.PNR, err)
	}

	return &CancelResult{
		PNR:            cancelled.PNR,
		SeatsRefunded:  cancelled.SeatsBooked,
		AmountRefunded: cancelled.TotalPrice,
	}, nil
}

func (s *BookingService) GetBooking(ctx context.Context, pnr string) (*domain.Booking, error) {
	return s.bookings.GetByPNR(ctx, pnr)
}

func validateInput(input BookFlightInput) error {
	if input.Seats <= 0 {
		return &domain.ValidationError{Field: "seats", Reason: "must be a positive integer"}
	}
	if len(input.Passengers) != input.Seats {
		return &domain.ValidationError{Field: "passengers", Reason: "passenger count must equal seats"}
	}
	for _, p := range input.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return &domain.ValidationError{Field: "passengers", Reason: "passenger name is required"}
		}
		if p.Age < 0 {
			return &domain.ValidationError{Field: "passengers", Reason: "passenger age cannot be negative"}
		}
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		PNR:        booking.PNR,
		FlightID:   booking.FlightID,
		Seats:      booking.SeatsBooked,
		TotalPrice: booking.TotalPrice,
		Currency:   booking.Currency,
		Status:     string(booking.Status),
		CreatedAt:  booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.PNR, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.PNR, event)
	}
	return nil
}

func newPNR() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return pnrPrefix + hex[:8]
}

func newTransactionRef() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "TXN" + hex[:6]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ BookingUseCase = (*BookingService)(nil)
