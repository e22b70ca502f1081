package domain

import "time"

type TicketStatus string

const (
	TicketStatusBooked    TicketStatus = "BOOKED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
	TicketStatusCompleted TicketStatus = "COMPLETED"
)

type Ticket struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"user_id"`
	FlightID      int64        `json:"flight_id"`
	ScheduleID    int64        `json:"schedule_id"`
	PassengerName string       `json:"passenger_name"`
	SeatNumber    string       `json:"seat_number,omitempty"`
	PriceCents    int64        `json:"price_cents"`
	Status        TicketStatus `json:"status"`
	BookingTime   time.Time    `json:"booking_time"`
	LastUpdated   time.Time    `json:"last_updated"`
}

// CanCancel reports whether the ticket may move to CANCELLED.
func (t Ticket) CanCancel() error {
	switch t.Status {
	case TicketStatusCancelled:
		return ErrAlreadyCancelled
	case TicketStatusCompleted:
		return ErrTicketNotCancellable
	}
	return nil
}
