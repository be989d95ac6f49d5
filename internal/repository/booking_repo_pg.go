package repository

import (
	"context"
	"errors"

	"github.com/AdithaMuthammaBS/flight-booking-simulato/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicatePNR reports a booking reference collision on insert. The
// coordinator regenerates the reference and retries.
var ErrDuplicatePNR = errors.New("booking reference already exists")

// BookingRepository persists bookings together with their passengers and
// payment record. Create writes all three as one transaction; Cancel flips
// the status and restores the flight's seats as one transaction.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	Cancel(ctx context.Context, pnr string) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *PGBookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	booking.Status = domain.BookingStatusConfirmed
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (pnr, flight_id, seats_booked, total_price, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		booking.PNR, booking.FlightID, booking.SeatsBooked, booking.TotalPrice, booking.Currency, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePNR
		}
		return err
	}

	for i := range booking.Passengers {
		p := &booking.Passengers[i]
		p.BookingID = booking.ID
		if err := tx.QueryRow(ctx, `INSERT INTO booking_passengers (booking_id, passenger_name, passenger_age)
			VALUES ($1, $2, $3) RETURNING id`, booking.ID, p.Name, p.Age).Scan(&p.ID); err != nil {
			return err
		}
	}

	pay := &booking.Payment
	pay.BookingID = booking.ID
	if err := tx.QueryRow(ctx, `INSERT INTO payments (booking_id, amount, currency, payment_method, transaction_reference, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, paid_at`,
		booking.ID, pay.Amount, pay.Currency, pay.Method, pay.TransactionRef, pay.Status).
		Scan(&pay.ID, &pay.PaidAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, pnr, flight_id, seats_booked, total_price, currency, status, created_at, updated_at FROM bookings WHERE pnr=$1`, pnr)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.PNR, &b.FlightID, &b.SeatsBooked, &b.TotalPrice, &b.Currency, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, booking_id, passenger_name, passenger_age FROM booking_passengers WHERE booking_id=$1 ORDER BY id`, b.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age); err != nil {
			return nil, err
		}
		b.Passengers = append(b.Passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	payRow := r.db.QueryRow(ctx, `SELECT id, booking_id, amount, currency, payment_method, transaction_reference, status, paid_at FROM payments WHERE booking_id=$1`, b.ID)
	pay := &b.Payment
	if err := payRow.Scan(&pay.ID, &pay.BookingID, &pay.Amount, &pay.Currency, &pay.Method, &pay.TransactionRef, &pay.Status, &pay.PaidAt); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return &b, nil
}

// Cancel flips a CONFIRMED booking to CANCELLED and gives the seats back to
// the flight inside one transaction: neither effect is visible without the
// other. A booking that is not CONFIRMED anymore is left untouched.
func (r *PGBookingRepository) Cancel(ctx context.Context, pnr string) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE pnr=$2 AND status=$3
		RETURNING id, pnr, flight_id, seats_booked, total_price, currency, status, created_at, updated_at`,
		domain.BookingStatusCancelled, pnr, domain.BookingStatusConfirmed)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.PNR, &b.FlightID, &b.SeatsBooked, &b.TotalPrice, &b.Currency, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAlreadyCancelled
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE flights SET available_seats = LEAST(available_seats + $2, total_seats), updated_at = now() WHERE id=$1`,
		b.FlightID, b.SeatsBooked); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE payments SET status=$1 WHERE booking_id=$2`,
		domain.PaymentStatusRefunded, b.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ BookingRepository = (*PGBookingRepository)(nil)
