package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type Booking struct {
	ID          int64
	PNR         string
	FlightID    int64
	SeatsBooked int
	TotalPrice  float64
	Currency    string
	Status      BookingStatus
	Passengers  []Passenger
	Payment     Payment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Passenger struct {
	ID        int64
	BookingID int64
	Name      string
	Age       int
}

type Payment struct {
	ID             int64
	BookingID      int64
	Amount         float64
	Currency       string
	Method         string
	TransactionRef string
	Status         PaymentStatus
	PaidAt         time.Time
}

// FareHistory is an append-only price snapshot for a flight. Records are
// written whenever a quote is computed and never updated afterwards.
type FareHistory struct {
	ID         int64
	FlightID   int64
	Price      float64
	Reason     string
	RecordedAt time.Time
}
