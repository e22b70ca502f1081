package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStatusChanged is returned by Transition when the ticket is no longer in
// the expected status.
var ErrStatusChanged = errors.New("ticket status changed")

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	Transition(ctx context.Context, id int64, from, to domain.TicketStatus) (*domain.Ticket, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

const ticketColumns = `id, user_id, flight_id, schedule_id, passenger_name, seat_number, price_cents, status, booking_time, last_updated`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var seat *string
	if err := row.Scan(&t.ID, &t.UserID, &t.FlightID, &t.ScheduleID, &t.PassengerName, &seat, &t.PriceCents, &t.Status, &t.BookingTime, &t.LastUpdated); err != nil {
		return nil, err
	}
	if seat != nil {
		t.SeatNumber = *seat
	}
	return &t, nil
}

func (r *PGTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	var seat *string
	if ticket.SeatNumber != "" {
		seat = &ticket.SeatNumber
	}
	row := r.db.QueryRow(ctx, `INSERT INTO tickets (user_id, flight_id, schedule_id, passenger_name, seat_number, price_cents, status, booking_time, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		ticket.UserID, ticket.FlightID, ticket.ScheduleID, ticket.PassengerName, seat, ticket.PriceCents, ticket.Status, ticket.BookingTime, ticket.LastUpdated)
	if err := row.Scan(&ticket.ID); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrTicketNotFound)
	}
	return t, nil
}

func (r *PGTicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE user_id=$1 ORDER BY booking_time DESC, id DESC`, userID)
}

func (r *PGTicketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY id`)
}

func (r *PGTicketRepository) Transition(ctx context.Context, id int64, from, to domain.TicketStatus) (*domain.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `UPDATE tickets SET status=$1, last_updated=now()
		WHERE id=$2 AND status=$3
		RETURNING `+ticketColumns, to, id, from))
	if err != nil {
		return nil, notFound(err, ErrStatusChanged)
	}
	return t, nil
}

func (r *PGTicketRepository) list(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

var _ TicketRepository = (*PGTicketRepository)(nil)
