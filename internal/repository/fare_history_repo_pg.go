package repository

import (
	"context"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FareHistoryRepository is the append-only fare audit log. Snapshots are
// only ever inserted, never updated or deleted.
type FareHistoryRepository interface {
	Record(ctx context.Context, snapshot *domain.FareHistory) error
	ListByFlight(ctx context.Context, flightID int64) ([]domain.FareHistory, error)
}

type PGFareHistoryRepository struct {
	db *pgxpool.Pool
}

func NewFareHistoryRepository(db *pgxpool.Pool) *PGFareHistoryRepository {
	return &PGFareHistoryRepository{db: db}
}

func (r *PGFareHistoryRepository) Record(ctx context.Context, snapshot *domain.FareHistory) error {
	return r.db.QueryRow(ctx, `INSERT INTO fare_history (flight_id, price, reason)
		VALUES ($1, $2, $3) RETURNING id, recorded_at`,
		snapshot.FlightID, snapshot.Price, snapshot.Reason).
		Scan(&snapshot.ID, &snapshot.RecordedAt)
}

func (r *PGFareHistoryRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.FareHistory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, flight_id, price, reason, recorded_at FROM fare_history WHERE flight_id=$1 ORDER BY recorded_at`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]domain.FareHistory, 0)
	for rows.Next() {
		var h domain.FareHistory
		if err := rows.Scan(&h.ID, &h.FlightID, &h.Price, &h.Reason, &h.RecordedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

var _ FareHistoryRepository = (*PGFareHistoryRepository)(nil)
