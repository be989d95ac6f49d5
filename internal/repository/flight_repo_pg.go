package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SearchFilter narrows a flight listing. Zero values mean "no filter".
type SearchFilter struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
}

func (f SearchFilter) Empty() bool {
	return f.Origin == "" && f.Destination == "" && f.DepartureDate.IsZero()
}

// FlightRepository is the flight seat ledger. ReserveSeats and ReleaseSeats
// are the only writers of available_seats and are atomic per flight, so
// concurrent bookings can never overdraw the seat count.
type FlightRepository interface {
	List(ctx context.Context, filter SearchFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	ReserveSeats(ctx context.Context, flightID int64, count int) error
	ReleaseSeats(ctx context.Context, flightID int64, count int) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) *PGFlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, origin_airport, dest_airport, departure_time, arrival_time, duration_minutes, total_seats, available_seats, base_price, currency, created_at, updated_at`

func (r *PGFlightRepository) List(ctx context.Context, filter SearchFilter) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE 1=1`
	args := []interface{}{}

	if filter.Origin != "" {
		args = append(args, filter.Origin)
		query += fmt.Sprintf(" AND origin_airport=$%d", len(args))
	}
	if filter.Destination != "" {
		args = append(args, filter.Destination)
		query += fmt.Sprintf(" AND dest_airport=$%d", len(args))
	}
	if !filter.DepartureDate.IsZero() {
		dayStart := filter.DepartureDate.Truncate(24 * time.Hour)
		args = append(args, dayStart, dayStart.Add(24*time.Hour))
		query += fmt.Sprintf(" AND departure_time >= $%d AND departure_time < $%d", len(args)-1, len(args))
	}
	query += " ORDER BY departure_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ReserveSeats decrements available_seats by count in a single conditional
// UPDATE. The availability check and the decrement are one statement, so
// the row lock keeps them indivisible with respect to other reservations.
func (r *PGFlightRepository) ReserveSeats(ctx context.Context, flightID int64, count int) error {
	res, err := r.db.Exec(ctx,
		`UPDATE flights SET available_seats = available_seats - $2, updated_at = now() WHERE id=$1 AND available_seats >= $2`,
		flightID, count)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, flightID); err != nil {
			return err
		}
		return domain.ErrInsufficientSeats
	}
	return nil
}

// ReleaseSeats increments available_seats by count, capped at total_seats
// so a double release can never push availability past capacity.
func (r *PGFlightRepository) ReleaseSeats(ctx context.Context, flightID int64, count int) error {
	res, err := r.db.Exec(ctx,
		`UPDATE flights SET available_seats = LEAST(available_seats + $2, total_seats), updated_at = now() WHERE id=$1`,
		flightID, count)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.FlightNumber, &f.OriginAirport, &f.DestAirport, &f.DepartureTime, &f.ArrivalTime,
		&f.DurationMinutes, &f.TotalSeats, &f.AvailableSeats, &f.BasePrice, &f.Currency, &f.CreatedAt, &f.UpdatedAt)
}

var _ FlightRepository = (*PGFlightRepository)(nil)
