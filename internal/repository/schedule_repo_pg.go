package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.Schedule) error
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
	Update(ctx context.Context, schedule *domain.Schedule) error
	Delete(ctx context.Context, id int64) error
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Schedule, error)
	ListByFlightBetween(ctx context.Context, flightID int64, from, to time.Time) ([]domain.Schedule, error)
}

type PGScheduleRepository struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) ScheduleRepository {
	return &PGScheduleRepository{db: db}
}

const scheduleColumns = `id, flight_id, departure_time, arrival_time, status, created_at, updated_at`

func scanSchedule(row pgx.Row) (*domain.Schedule, error) {
	var s domain.Schedule
	if err := row.Scan(&s.ID, &s.FlightID, &s.DepartureTime, &s.ArrivalTime, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	row := r.db.QueryRow(ctx, `INSERT INTO schedules (flight_id, departure_time, arrival_time, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		schedule.FlightID, schedule.DepartureTime, schedule.ArrivalTime, schedule.Status)
	if err := row.Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

func (r *PGScheduleRepository) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	s, err := scanSchedule(r.db.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrScheduleNotFound)
	}
	return s, nil
}

func (r *PGScheduleRepository) Update(ctx context.Context, schedule *domain.Schedule) error {
	row := r.db.QueryRow(ctx, `UPDATE schedules
		SET flight_id=$1, departure_time=$2, arrival_time=$3, status=$4, updated_at=now()
		WHERE id=$5
		RETURNING created_at, updated_at`,
		schedule.FlightID, schedule.DepartureTime, schedule.ArrivalTime, schedule.Status, schedule.ID)
	if err := row.Scan(&schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
		return notFound(err, domain.ErrScheduleNotFound)
	}
	return nil
}

func (r *PGScheduleRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM schedules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *PGScheduleRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Schedule, error) {
	return r.list(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE flight_id=$1 ORDER BY departure_time`, flightID)
}

func (r *PGScheduleRepository) ListByFlightBetween(ctx context.Context, flightID int64, from, to time.Time) ([]domain.Schedule, error) {
	return r.list(ctx, `SELECT `+scheduleColumns+` FROM schedules
		WHERE flight_id=$1 AND departure_time BETWEEN $2 AND $3
		ORDER BY departure_time`, flightID, from, to)
}

func (r *PGScheduleRepository) list(ctx context.Context, query string, args ...any) ([]domain.Schedule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]domain.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

var _ ScheduleRepository = (*PGScheduleRepository)(nil)
