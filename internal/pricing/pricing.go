// Package pricing computes time- and demand-sensitive fares. The
// computation is pure: every input, including the current time and the
// sampled demand factor, is passed in explicitly.
package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
)

const (
	DemandMin = 0.8
	DemandMax = 1.2

	seatSurchargeMax = 0.5
)

// Quote returns the adjusted fare for one seat.
//
// seatMultiplier grows linearly with the fill ratio, up to +50% for a full
// flight. timeMultiplier is a step function over hours to departure:
// under 24h -> 1.4, under 72h -> 1.2, otherwise 1.0. A departure already in
// the past gets no markup; rejecting such bookings is the caller's job.
// The result is rounded half away from zero to 2 decimal places.
func Quote(basePrice float64, seatsTotal, seatsAvailable int, departure time.Time, demandFactor float64, now time.Time) (float64, error) {
	if basePrice <= 0 {
		return 0, fmt.Errorf("%w: base price must be positive, got %.2f", domain.ErrInvalidInput, basePrice)
	}
	if seatsTotal <= 0 {
		return 0, fmt.Errorf("%w: seats total must be positive, got %d", domain.ErrInvalidInput, seatsTotal)
	}
	if seatsAvailable < 0 || seatsAvailable > seatsTotal {
		return 0, fmt.Errorf("%w: seats available %d outside [0, %d]", domain.ErrInvalidInput, seatsAvailable, seatsTotal)
	}

	fillRatio := float64(seatsTotal-seatsAvailable) / float64(seatsTotal)
	seatMultiplier := 1 + fillRatio*seatSurchargeMax

	timeMultiplier := timeTier(hoursToDeparture(departure, now))
	demandFactor = clampDemand(demandFactor)

	final := basePrice * seatMultiplier * timeMultiplier * demandFactor
	return round2(final), nil
}

// QuoteFlight prices one seat on the flight as it stands right now.
func QuoteFlight(f *domain.Flight, demandFactor float64, now time.Time) (float64, error) {
	return Quote(f.BasePrice, f.TotalSeats, f.AvailableSeats, f.DepartureTime, demandFactor, now)
}

// Reason renders the audit string recorded alongside a fare snapshot.
func Reason(f *domain.Flight, demandFactor float64, now time.Time) string {
	fillRatio := 0.0
	if f.TotalSeats > 0 {
		fillRatio = float64(f.SeatsBooked()) / float64(f.TotalSeats)
	}
	hours := hoursToDeparture(f.DepartureTime, now)
	demand := clampDemand(demandFactor)
	mult := (1 + fillRatio*seatSurchargeMax) * timeTier(hours) * demand
	return fmt.Sprintf("base=%.2f fill=%.2f time_h=%.1f demand=%.2f mult=%.2f",
		f.BasePrice, fillRatio, hours, demand, mult)
}

func hoursToDeparture(departure, now time.Time) float64 {
	return math.Max(departure.Sub(now).Hours(), 0)
}

func timeTier(hours float64) float64 {
	switch {
	case hours <= 0:
		return 1.0
	case hours < 24:
		return 1.4
	case hours < 72:
		return 1.2
	default:
		return 1.0
	}
}

func clampDemand(d float64) float64 {
	if d < DemandMin {
		return DemandMin
	}
	if d > DemandMax {
		return DemandMax
	}
	return d
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
