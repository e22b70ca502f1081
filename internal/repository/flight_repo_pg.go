package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetByNumber(ctx context.Context, number string) (*domain.Flight, error)
	List(ctx context.Context, order domain.SortOrder) ([]domain.Flight, error)
	// Update persists flight only if its stored version still equals
	// flight.Version, and bumps the version on success.
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	ReserveSeat(ctx context.Context, flightID int64) (*domain.Flight, error)
	ReleaseSeat(ctx context.Context, flightID int64) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, departure_city, arrival_city, price_cents, capacity, available_seats, version, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.PriceCents, &f.Capacity, &f.AvailableSeats, &f.Version, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	row := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, airline, departure_city, arrival_city, price_cents, capacity, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, version, created_at, updated_at`,
		flight.FlightNumber, flight.Airline, flight.DepartureCity, flight.ArrivalCity, flight.PriceCents, flight.Capacity, flight.AvailableSeats)
	if err := row.Scan(&flight.ID, &flight.Version, &flight.CreatedAt, &flight.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateFlightNumber
		}
		return fmt.Errorf("insert flight: %w", err)
	}
	return nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrFlightNotFound)
	}
	return f, nil
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_number=$1`, number))
	if err != nil {
		return nil, notFound(err, domain.ErrFlightNotFound)
	}
	return f, nil
}

func (r *PGFlightRepository) List(ctx context.Context, order domain.SortOrder) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights`
	switch order {
	case domain.SortAsc:
		query += ` ORDER BY price_cents ASC, id`
	case domain.SortDesc:
		query += ` ORDER BY price_cents DESC, id`
	default:
		query += ` ORDER BY id`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	row := r.db.QueryRow(ctx, `UPDATE flights
		SET flight_number=$1, airline=$2, departure_city=$3, arrival_city=$4, price_cents=$5,
			capacity=$6, available_seats=$7, version = version + 1, updated_at = now()
		WHERE id=$8 AND version=$9
		RETURNING version, updated_at`,
		flight.FlightNumber, flight.Airline, flight.DepartureCity, flight.ArrivalCity, flight.PriceCents,
		flight.Capacity, flight.AvailableSeats, flight.ID, flight.Version)
	if err := row.Scan(&flight.Version, &flight.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateFlightNumber
		}
		if errors.Is(err, pgx.ErrNoRows) {
			exists, existsErr := r.Exists(ctx, flight.ID)
			if existsErr != nil {
				return existsErr
			}
			if !exists {
				return domain.ErrFlightNotFound
			}
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("update flight: %w", err)
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

func (r *PGFlightRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id=$1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGFlightRepository) ReserveSeat(ctx context.Context, flightID int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `UPDATE flights
		SET available_seats = available_seats - 1, version = version + 1, updated_at = now()
		WHERE id=$1 AND available_seats > 0
		RETURNING `+flightColumns, flightID))
	if err != nil {
		return nil, r.seatError(ctx, flightID, err, domain.ErrNoSeatsAvailable)
	}
	return f, nil
}

func (r *PGFlightRepository) ReleaseSeat(ctx context.Context, flightID int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `UPDATE flights
		SET available_seats = available_seats + 1, version = version + 1, updated_at = now()
		WHERE id=$1 AND available_seats < capacity
		RETURNING `+flightColumns, flightID))
	if err != nil {
		return nil, r.seatError(ctx, flightID, err, fmt.Errorf("%w: no booked seats to release", domain.ErrConflict))
	}
	return f, nil
}

// seatError tells a missing flight apart from a guard that did not match.
func (r *PGFlightRepository) seatError(ctx context.Context, flightID int64, err, guardErr error) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	exists, existsErr := r.Exists(ctx, flightID)
	if existsErr != nil {
		return existsErr
	}
	if !exists {
		return domain.ErrFlightNotFound
	}
	return guardErr
}

var _ FlightRepository = (*PGFlightRepository)(nil)
