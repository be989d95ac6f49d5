package flights

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/pricing"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/repository"
)

const (
	SortByPrice     = "price"
	SortByDuration  = "duration"
	SortByDeparture = "departure"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type FlightUseCase interface {
	Search(ctx context.Context, query SearchQuery) ([]PricedFlight, error)
	GetByID(ctx context.Context, id int64) (*PricedFlight, error)
	QuotePrice(ctx context.Context, flightID int64) (float64, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
}

type SearchQuery struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	SortBy        string
	Order         string
}

// PricedFlight is a flight with its fare as computed for this request.
// The dynamic price is never stored; it is recomputed per query from the
// capacity snapshot, the clock and a freshly sampled demand factor.
type PricedFlight struct {
	domain.Flight
	DynamicPrice float64
}

type FlightService struct {
	repo     repository.FlightRepository
	fares    repository.FareHistoryRepository
	cache    Cache
	demand   pricing.DemandSampler
	now      pricing.Clock
	cacheTTL time.Duration
}

type FlightServiceOption func(*FlightService)

func WithClock(clock pricing.Clock) FlightServiceOption {
	return func(s *FlightService) {
		s.now = clock
	}
}

func WithFareHistory(fares repository.FareHistoryRepository) FlightServiceOption {
	return func(s *FlightService) {
		s.fares = fares
	}
}

func NewFlightService(repo repository.FlightRepository, cache Cache, demand pricing.DemandSampler, cacheTTL time.Duration, opts ...FlightServiceOption) *FlightService {
	service := &FlightService{
		repo:     repo,
		cache:    cache,
		demand:   demand,
		now:      pricing.SystemClock,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Search lists flights matching the query with a current fare attached,
// sorted by price, duration or departure time. The unfiltered flight list
// is served from cache when possible; prices are always computed fresh.
func (s *FlightService) Search(ctx context.Context, query SearchQuery) ([]PricedFlight, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	flights, err := s.listFlights(ctx, repository.SearchFilter{
		Origin:        query.Origin,
		Destination:   query.Destination,
		DepartureDate: query.DepartureDate,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	priced := make([]PricedFlight, 0, len(flights))
	for _, f := range flights {
		price, err := pricing.QuoteFlight(&f, s.demand.Sample(), now)
		if err != nil {
			return nil, err
		}
		priced = append(priced, PricedFlight{Flight: f, DynamicPrice: price})
	}

	sortFlights(priced, query.SortBy, query.Order)
	return priced, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*PricedFlight, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := s.quote(ctx, flight)
	if err != nil {
		return nil, err
	}
	return &PricedFlight{Flight: *flight, DynamicPrice: price}, nil
}

// QuotePrice computes the current fare for one seat without reserving
// anything.
func (s *FlightService) QuotePrice(ctx context.Context, flightID int64) (float64, error) {
	flight, err := s.repo.GetByID(ctx, flightID)
	if err != nil {
		return 0, err
	}
	return s.quote(ctx, flight)
}

func (s *FlightService) quote(ctx context.Context, flight *domain.Flight) (float64, error) {
	now := s.now()
	demand := s.demand.Sample()

	price, err := pricing.QuoteFlight(flight, demand, now)
	if err != nil {
		return 0, err
	}

	if s.fares != nil {
		snapshot := &domain.FareHistory{
			FlightID: flight.ID,
			Price:    price,
			Reason:   pricing.Reason(flight, demand, now),
		}
		if err := s.fares.Record(ctx, snapshot); err != nil {
			log.Printf("failed to record fare snapshot for flight %d: %v", flight.ID, err)
		}
	}
	return price, nil
}

func (s *FlightService) listFlights(ctx context.Context, filter repository.SearchFilter) ([]domain.Flight, error) {
	if s.cache != nil && filter.Empty() {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && filter.Empty() {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func validateQuery(query SearchQuery) error {
	switch query.SortBy {
	case "", SortByPrice, SortByDuration, SortByDeparture:
	default:
		return &domain.ValidationError{Field: "sort_by", Reason: "must be price, duration or departure"}
	}
	switch query.Order {
	case "", OrderAsc, OrderDesc:
	default:
		return &domain.ValidationError{Field: "order", Reason: "must be asc or desc"}
	}
	return nil
}

func sortFlights(flights []PricedFlight, sortBy, order string) {
	less := func(i, j int) bool {
		return flights[i].DynamicPrice < flights[j].DynamicPrice
	}
	switch sortBy {
	case SortByDuration:
		less = func(i, j int) bool {
			return flights[i].DurationMinutes < flights[j].DurationMinutes
		}
	case SortByDeparture:
		less = func(i, j int) bool {
			return flights[i].DepartureTime.Before(flights[j].DepartureTime)
		}
	}

	sort.SliceStable(flights, less)
	if order == OrderDesc {
		for i, j := 0, len(flights)-1; i < j; i, j = i+1, j-1 {
			flights[i], flights[j] = flights[j], flights[i]
		}
	}
}

var _ FlightUseCase = (*FlightService)(nil)
