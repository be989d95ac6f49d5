package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
)

// MemoryStore keeps flights, bookings and fare history in process memory.
// It backs the "memory" storage driver and the concurrency tests. All seat
// mutations happen under one mutex, which makes reserve and release
// linearizable the same way the PG row lock does.
type MemoryStore struct {
	mu          sync.Mutex
	flights     map[int64]*domain.Flight
	bookings    map[string]*domain.Booking
	fareHistory map[int64][]domain.FareHistory
	nextID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flights:     make(map[int64]*domain.Flight),
		bookings:    make(map[string]*domain.Booking),
		fareHistory: make(map[int64][]domain.FareHistory),
	}
}

// AddFlight registers a flight with the store and assigns its ID. Used by
// the memory driver at startup and by tests.
func (s *MemoryStore) AddFlight(f domain.Flight) *domain.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	f.ID = s.nextID
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	s.flights[f.ID] = &f
	return &f
}

func (s *MemoryStore) List(ctx context.Context, filter SearchFilter) ([]domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flights := make([]domain.Flight, 0, len(s.flights))
	for _, f := range s.flights {
		if filter.Origin != "" && f.OriginAirport != filter.Origin {
			continue
		}
		if filter.Destination != "" && f.DestAirport != filter.Destination {
			continue
		}
		if !filter.DepartureDate.IsZero() {
			dayStart := filter.DepartureDate.Truncate(24 * time.Hour)
			if f.DepartureTime.Before(dayStart) || !f.DepartureTime.Before(dayStart.Add(24*time.Hour)) {
				continue
			}
		}
		flights = append(flights, *f)
	}
	sort.Slice(flights, func(i, j int) bool {
		return flights[i].DepartureTime.Before(flights[j].DepartureTime)
	})
	return flights, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[id]
	if !ok {
		return nil, domain.ErrFlightNotFound
	}
	copied := *f
	return &copied, nil
}

func (s *MemoryStore) ReserveSeats(ctx context.Context, flightID int64, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[flightID]
	if !ok {
		return domain.ErrFlightNotFound
	}
	if f.AvailableSeats < count {
		return domain.ErrInsufficientSeats
	}
	f.AvailableSeats -= count
	f.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) ReleaseSeats(ctx context.Context, flightID int64, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseLocked(flightID, count)
}

func (s *MemoryStore) releaseLocked(flightID int64, count int) error {
	f, ok := s.flights[flightID]
	if !ok {
		return domain.ErrFlightNotFound
	}
	refundSeats(f, count)
	return nil
}

func refundSeats(f *domain.Flight, count int) {
	f.AvailableSeats += count
	if f.AvailableSeats > f.TotalSeats {
		f.AvailableSeats = f.TotalSeats
	}
	f.UpdatedAt = time.Now()
}

func (s *MemoryStore) Create(ctx context.Context, booking *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[booking.PNR]; exists {
		return ErrDuplicatePNR
	}

	s.nextID++
	booking.ID = s.nextID
	booking.Status = domain.BookingStatusConfirmed
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	for i := range booking.Passengers {
		s.nextID++
		booking.Passengers[i].ID = s.nextID
		booking.Passengers[i].BookingID = booking.ID
	}
	s.nextID++
	booking.Payment.ID = s.nextID
	booking.Payment.BookingID = booking.ID
	booking.Payment.PaidAt = now

	copied := *booking
	copied.Passengers = append([]domain.Passenger(nil), booking.Passengers...)
	s.bookings[booking.PNR] = &copied
	return nil
}

func (s *MemoryStore) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[pnr]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	copied := *b
	copied.Passengers = append([]domain.Passenger(nil), b.Passengers...)
	return &copied, nil
}

func (s *MemoryStore) Cancel(ctx context.Context, pnr string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[pnr]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if b.Status != domain.BookingStatusConfirmed {
		return nil, domain.ErrAlreadyCancelled
	}

	f, ok := s.flights[b.FlightID]
	if !ok {
		return nil, domain.ErrFlightNotFound
	}

	// Status flip and seat release happen under the same lock hold, so no
	// reader can observe one without the other.
	b.Status = domain.BookingStatusCancelled
	b.Payment.Status = domain.PaymentStatusRefunded
	b.UpdatedAt = time.Now()
	refundSeats(f, b.SeatsBooked)

	copied := *b
	copied.Passengers = append([]domain.Passenger(nil), b.Passengers...)
	return &copied, nil
}

func (s *MemoryStore) Record(ctx context.Context, snapshot *domain.FareHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	snapshot.ID = s.nextID
	snapshot.RecordedAt = time.Now()
	s.fareHistory[snapshot.FlightID] = append(s.fareHistory[snapshot.FlightID], *snapshot)
	return nil
}

func (s *MemoryStore) ListByFlight(ctx context.Context, flightID int64) ([]domain.FareHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FareHistory(nil), s.fareHistory[flightID]...), nil
}

var (
	_ FlightRepository      = (*MemoryStore)(nil)
	_ BookingRepository     = (*MemoryStore)(nil)
	_ FareHistoryRepository = (*MemoryStore)(nil)
)
