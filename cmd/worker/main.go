package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/config"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/email"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/kafka"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/pricing"
	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	defaultFareSweep = 15 * time.Minute
	farePublishTries = 3
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	fareRepo := repository.NewFareHistoryRepository(pool)

	seed := cfg.Booking.DemandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	demand := pricing.NewRandomDemand(seed)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepEvery := time.Duration(cfg.Worker.FareSweepMinutes) * time.Minute
	if sweepEvery <= 0 {
		sweepEvery = defaultFareSweep
	}
	sweepTicker := time.NewTicker(sweepEvery)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			if err := sweepFares(ctx, flightRepo, fareRepo, producer, demand, cfg.Kafka.FareTopic); err != nil {
				log.Printf("fare sweep error: %v", err)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}

// sweepFares records a fare snapshot for every upcoming flight so the
// fare history keeps moving even when nobody is searching.
func sweepFares(ctx context.Context, flightRepo repository.FlightRepository, fareRepo repository.FareHistoryRepository, producer *kafka.Producer, demand pricing.DemandSampler, fareTopic string) error {
	flights, err := flightRepo.List(ctx, repository.SearchFilter{})
	if err != nil {
		return err
	}

	now := time.Now()
	recorded := 0
	for i := range flights {
		f := &flights[i]
		if f.Departed(now) {
			continue
		}

		factor := demand.Sample()
		price, err := pricing.QuoteFlight(f, factor, now)
		if err != nil {
			log.Printf("skip flight %d: %v", f.ID, err)
			continue
		}

		snapshot := &domain.FareHistory{
			FlightID: f.ID,
			Price:    price,
			Reason:   pricing.Reason(f, factor, now),
		}
		if err := fareRepo.Record(ctx, snapshot); err != nil {
			log.Printf("record fare for flight %d: %v", f.ID, err)
			continue
		}
		recorded++

		if fareTopic != "" {
			event := kafka.FareEvent{FlightID: f.ID, Price: price, Reason: snapshot.Reason, RecordedAt: snapshot.RecordedAt}
			if err := producer.PublishWithRetry(ctx, fareTopic, f.FlightNumber, event, farePublishTries); err != nil {
				log.Printf("publish fare event for flight %d: %v", f.ID, err)
			}
		}
	}

	if recorded > 0 {
		log.Printf("recorded %d fare snapshots", recorded)
	}
	return nil
}
