package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/config"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/bootstrap"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/cache"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/kafka"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/pricing"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/repository"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/service/booking"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		flightRepo  repository.FlightRepository
		bookingRepo repository.BookingRepository
		fareRepo    repository.FareHistoryRepository
	)
	switch cfg.Database.Driver {
	case "", "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		flightRepo = repository.NewFlightRepository(pool)
		bookingRepo = repository.NewBookingRepository(pool)
		fareRepo = repository.NewFareHistoryRepository(pool)
	case "memory":
		store := repository.NewMemoryStore()
		seedDemoFlights(store)
		flightRepo = store
		bookingRepo = store
		fareRepo = store
	default:
		log.Fatalf("unknown database driver %q", cfg.Database.Driver)
	}

	cacheTTL := time.Duration(cfg.Booking.FlightsCacheTTL) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, cacheTTL)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	seed := cfg.Booking.DemandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	demand := pricing.NewRandomDemand(seed)

	flightService := flights.NewFlightService(flightRepo, redisCache, demand, cacheTTL,
		flights.WithFareHistory(fareRepo))
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		producer,
		demand,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// seedDemoFlights loads a small schedule so the memory driver is usable
// out of the box.
func seedDemoFlights(store *repository.MemoryStore) {
	base := time.Now().Truncate(time.Hour)
	schedule := []struct {
		number   string
		origin   string
		dest     string
		depIn    time.Duration
		duration int
		price    float64
	}{
		{"AB101", "BLR", "DEL", 18 * time.Hour, 165, 5400},
		{"IS220", "DEL", "BOM", 40 * time.Hour, 130, 4800},
		{"NB330", "MAA", "HYD", 70 * time.Hour, 80, 3200},
		{"JR440", "BOM", "BLR", 6 * 24 * time.Hour, 95, 3900},
	}

	for _, s := range schedule {
		dep := base.Add(s.depIn)
		store.AddFlight(domain.Flight{
			FlightNumber:    s.number,
			OriginAirport:   s.origin,
			DestAirport:     s.dest,
			DepartureTime:   dep,
			ArrivalTime:     dep.Add(time.Duration(s.duration) * time.Minute),
			DurationMinutes: s.duration,
			TotalSeats:      180,
			AvailableSeats:  180,
			BasePrice:       s.price,
			Currency:        "INR",
		})
	}
}
