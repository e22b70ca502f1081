package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/Domenick1991/airtickets/internal/kafka"
	"github.com/Domenick1991/airtickets/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// detachedCallTimeout bounds seat releases and event publishing that run
// after the caller may have gone.
const detachedCallTimeout = 10 * time.Second

type TicketUseCase interface {
	Create(ctx context.Context, userID int64, in CreateTicketInput) (*TicketView, error)
	Find(ctx context.Context, id int64) (*domain.Ticket, error)
	Get(ctx context.Context, id int64) (*TicketView, error)
	Describe(ctx context.Context, ticket *domain.Ticket) *TicketView
	ListForUser(ctx context.Context, userID int64) ([]TicketView, error)
	ListAll(ctx context.Context) ([]TicketView, error)
	Cancel(ctx context.Context, id int64) (*domain.Ticket, error)
}

// FlightDirectory reads flights and schedules from the flights service.
type FlightDirectory interface {
	GetFlight(ctx context.Context, id int64) (*domain.Flight, error)
	GetSchedule(ctx context.Context, id int64) (*domain.Schedule, error)
}

// SeatInventory moves seats on the flights service.
type SeatInventory interface {
	ReserveSeat(ctx context.Context, flightID int64) error
	ReleaseSeat(ctx context.Context, flightID int64) error
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateTicketInput struct {
	FlightID      int64
	ScheduleID    int64
	PassengerName string
	SeatNumber    string
}

func (in CreateTicketInput) Validate() error {
	if in.FlightID <= 0 {
		return domain.Validationf("flight id is required")
	}
	if in.ScheduleID <= 0 {
		return domain.Validationf("schedule id is required")
	}
	if strings.TrimSpace(in.PassengerName) == "" {
		return domain.Validationf("passenger name is required")
	}
	return nil
}

// TicketView is a ticket with whatever flight, schedule and user details
// could be fetched. Missing details are left nil.
type TicketView struct {
	domain.Ticket
	Flight   *domain.Flight   `json:"flight,omitempty"`
	Schedule *domain.Schedule `json:"schedule,omitempty"`
	User     *domain.User     `json:"user,omitempty"`
}

type TicketService struct {
	tickets      repository.TicketRepository
	flights      FlightDirectory
	seats        SeatInventory
	users        UserDirectory
	producer     Producer
	topic        string
	reserveSeats bool
	parallel     int
	log          logrus.FieldLogger
	now          func() time.Time
}

type TicketServiceOption func(*TicketService)

// WithSeatReservation toggles the reserve/release calls to the flights
// service. Without it bookings never touch the seat counter.
func WithSeatReservation(enabled bool) TicketServiceOption {
	return func(s *TicketService) {
		s.reserveSeats = enabled
	}
}

// WithEvents publishes ticket lifecycle events to topic.
func WithEvents(producer Producer, topic string) TicketServiceOption {
	return func(s *TicketService) {
		s.producer = producer
		s.topic = topic
	}
}

// WithEnrichParallel bounds how many tickets of a listing are enriched at once.
func WithEnrichParallel(n int) TicketServiceOption {
	return func(s *TicketService) {
		if n > 0 {
			s.parallel = n
		}
	}
}

func WithClock(now func() time.Time) TicketServiceOption {
	return func(s *TicketService) {
		s.now = now
	}
}

func NewTicketService(
	tickets repository.TicketRepository,
	flights FlightDirectory,
	seats SeatInventory,
	users UserDirectory,
	log logrus.FieldLogger,
	opts ...TicketServiceOption,
) *TicketService {
	s := &TicketService{
		tickets:      tickets,
		flights:      flights,
		seats:        seats,
		users:        users,
		reserveSeats: true,
		parallel:     8,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TicketService) Create(ctx context.Context, userID int64, in CreateTicketInput) (*TicketView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	flight, schedule, err := s.lookupTrip(ctx, in.FlightID, in.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.FlightID != flight.ID {
		return nil, domain.Validationf("schedule %d does not belong to flight %d", schedule.ID, flight.ID)
	}
	if schedule.Status == domain.ScheduleStatusCancelled {
		return nil, domain.Validationf("schedule %d is cancelled", schedule.ID)
	}

	if s.reserveSeats {
		if err := s.seats.ReserveSeat(ctx, flight.ID); err != nil {
			if errors.Is(err, domain.ErrUpstreamUnavailable) {
				// the flights service may have committed the decrement; a blind
				// release could hand out a seat that was never taken
				s.log.WithError(err).WithField("flight_id", flight.ID).Warn("seat reservation outcome unknown")
			}
			return nil, fmt.Errorf("reserve seat: %w", err)
		}
	}

	now := s.now().UTC()
	ticket := &domain.Ticket{
		UserID:        userID,
		FlightID:      flight.ID,
		ScheduleID:    schedule.ID,
		PassengerName: strings.TrimSpace(in.PassengerName),
		SeatNumber:    in.SeatNumber,
		PriceCents:    flight.PriceCents,
		Status:        domain.TicketStatusBooked,
		BookingTime:   now,
		LastUpdated:   now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		if s.reserveSeats {
			releaseCtx, cancel := detach(ctx)
			releaseErr := s.seats.ReleaseSeat(releaseCtx, flight.ID)
			cancel()
			if releaseErr != nil {
				s.log.WithError(releaseErr).WithField("flight_id", flight.ID).Error("failed to release seat after ticket insert failed")
			}
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"ticket_id": ticket.ID,
		"user_id":   userID,
		"flight_id": flight.ID,
	}).Info("ticket booked")
	s.publish(ctx, kafka.EventTicketBooked, ticket)

	view := &TicketView{Ticket: *ticket, Flight: flight, Schedule: schedule}
	view.User = s.optionalUser(ctx, userID)
	return view, nil
}

// lookupTrip fetches the flight and schedule of a booking. Both are required;
// a flight error is reported ahead of a schedule error.
func (s *TicketService) lookupTrip(ctx context.Context, flightID, scheduleID int64) (*domain.Flight, *domain.Schedule, error) {
	var (
		flight              *domain.Flight
		schedule            *domain.Schedule
		flightErr, schedErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		flight, flightErr = s.flights.GetFlight(ctx, flightID)
		return nil
	})
	g.Go(func() error {
		schedule, schedErr = s.flights.GetSchedule(ctx, scheduleID)
		return nil
	})
	_ = g.Wait()

	if flightErr != nil {
		return nil, nil, flightErr
	}
	if schedErr != nil {
		return nil, nil, schedErr
	}
	return flight, schedule, nil
}

func (s *TicketService) Find(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

func (s *TicketService) Get(ctx context.Context, id int64) (*TicketView, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Describe(ctx, ticket), nil
}

// Describe enriches ticket. It never fails; details that cannot be fetched
// are logged and left out.
func (s *TicketService) Describe(ctx context.Context, ticket *domain.Ticket) *TicketView {
	view := &TicketView{Ticket: *ticket}

	var g errgroup.Group
	g.Go(func() error {
		flight, err := s.flights.GetFlight(ctx, ticket.FlightID)
		if err != nil {
			s.logLookup(err, "flight", ticket)
			return nil
		}
		view.Flight = flight
		return nil
	})
	g.Go(func() error {
		schedule, err := s.flights.GetSchedule(ctx, ticket.ScheduleID)
		if err != nil {
			s.logLookup(err, "schedule", ticket)
			return nil
		}
		view.Schedule = schedule
		return nil
	})
	g.Go(func() error {
		view.User = s.optionalUser(ctx, ticket.UserID)
		return nil
	})
	_ = g.Wait()

	return view
}

func (s *TicketService) optionalUser(ctx context.Context, userID int64) *domain.User {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("user details unavailable")
		return nil
	}
	return user
}

func (s *TicketService) logLookup(err error, what string, ticket *domain.Ticket) {
	s.log.WithError(err).WithFields(logrus.Fields{
		"ticket_id": ticket.ID,
		"detail":    what,
	}).Warn("ticket detail unavailable")
}

func (s *TicketService) ListForUser(ctx context.Context, userID int64) ([]TicketView, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.describeAll(ctx, tickets), nil
}

func (s *TicketService) ListAll(ctx context.Context) ([]TicketView, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.describeAll(ctx, tickets), nil
}

func (s *TicketService) describeAll(ctx context.Context, tickets []domain.Ticket) []TicketView {
	views := make([]TicketView, len(tickets))

	var g errgroup.Group
	g.SetLimit(s.parallel)
	for i := range tickets {
		g.Go(func() error {
			views[i] = *s.Describe(ctx, &tickets[i])
			return nil
		})
	}
	_ = g.Wait()

	return views
}

// Cancel moves a BOOKED ticket to CANCELLED and gives its seat back.
func (s *TicketService) Cancel(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ticket.CanCancel(); err != nil {
		return nil, err
	}

	cancelled, err := s.tickets.Transition(ctx, id, domain.TicketStatusBooked, domain.TicketStatusCancelled)
	if errors.Is(err, repository.ErrStatusChanged) {
		// lost the race to a concurrent cancel
		return nil, domain.ErrAlreadyCancelled
	}
	if err != nil {
		return nil, err
	}

	if s.reserveSeats {
		releaseCtx, cancel := detach(ctx)
		err := s.seats.ReleaseSeat(releaseCtx, cancelled.FlightID)
		cancel()
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"ticket_id": id,
				"flight_id": cancelled.FlightID,
			}).Error("failed to release seat for cancelled ticket")
		}
	}

	s.log.WithField("ticket_id", id).Info("ticket cancelled")
	s.publish(ctx, kafka.EventTicketCancelled, cancelled)
	return cancelled, nil
}

func (s *TicketService) publish(ctx context.Context, eventType string, ticket *domain.Ticket) {
	if s.producer == nil {
		return
	}
	ctx, cancel := detach(ctx)
	defer cancel()

	event := kafka.NewTicketEvent(eventType, ticket)
	if err := s.producer.Publish(ctx, s.topic, fmt.Sprint(ticket.ID), event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"ticket_id": ticket.ID,
			"event":     eventType,
		}).Warn("failed to publish ticket event")
	}
}

// detach keeps the values of ctx but not its cancellation. Used for calls
// that follow a committed change.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), detachedCallTimeout)
}

var _ TicketUseCase = (*TicketService)(nil)
