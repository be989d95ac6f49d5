package email

import (
	"context"
	"log"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/kafka"
)

// Sender writes booking notifications. The simulator has no real mail
// transport; notifications go to the process log.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("notify: booking %s %s on flight %d (%d seats, %.2f %s)",
		event.PNR, event.Type, event.FlightID, event.Seats, event.TotalPrice, event.Currency)
	return nil
}
