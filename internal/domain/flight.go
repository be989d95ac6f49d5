package domain

import "time"

type Flight struct {
	ID              int64
	FlightNumber    string
	OriginAirport   string
	DestAirport     string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	DurationMinutes int
	TotalSeats      int
	AvailableSeats  int
	BasePrice       float64
	Currency        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SeatsBooked is the number of seats already taken on the flight.
func (f *Flight) SeatsBooked() int {
	return f.TotalSeats - f.AvailableSeats
}

func (f *Flight) Departed(now time.Time) bool {
	return !f.DepartureTime.After(now)
}
