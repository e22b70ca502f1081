package flights

import (
	"context"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/Domenick1991/airtickets/internal/repository"
)

type ScheduleUseCase interface {
	Create(ctx context.Context, in domain.ScheduleInput) (*domain.Schedule, error)
	Update(ctx context.Context, id int64, in domain.ScheduleInput) (*domain.Schedule, error)
	GetByID(ctx context.Context, id int64) (*domain.Schedule, error)
	ListForFlight(ctx context.Context, flightID int64, days domain.DateRange) ([]domain.Schedule, error)
	Delete(ctx context.Context, id int64) error
}

type ScheduleService struct {
	schedules repository.ScheduleRepository
	flights   repository.FlightRepository
}

func NewScheduleService(schedules repository.ScheduleRepository, flights repository.FlightRepository) *ScheduleService {
	return &ScheduleService{schedules: schedules, flights: flights}
}

func (s *ScheduleService) Create(ctx context.Context, in domain.ScheduleInput) (*domain.Schedule, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireFlight(ctx, in.FlightID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.ScheduleStatusScheduled
	}

	schedule := domain.Schedule{
		FlightID:      in.FlightID,
		DepartureTime: in.DepartureTime,
		ArrivalTime:   in.ArrivalTime,
		Status:        status,
	}
	if err := s.schedules.Create(ctx, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Update replaces the schedule's times and flight. An empty status keeps the
// stored one.
func (s *ScheduleService) Update(ctx context.Context, id int64, in domain.ScheduleInput) (*domain.Schedule, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireFlight(ctx, in.FlightID); err != nil {
		return nil, err
	}

	schedule.FlightID = in.FlightID
	schedule.DepartureTime = in.DepartureTime
	schedule.ArrivalTime = in.ArrivalTime
	if in.Status != "" {
		schedule.Status = in.Status
	}

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *ScheduleService) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	return s.schedules.GetByID(ctx, id)
}

func (s *ScheduleService) ListForFlight(ctx context.Context, flightID int64, days domain.DateRange) ([]domain.Schedule, error) {
	if err := s.requireFlight(ctx, flightID); err != nil {
		return nil, err
	}

	from, to, bounded, err := days.Resolve()
	if err != nil {
		return nil, err
	}
	if !bounded {
		return s.schedules.ListByFlight(ctx, flightID)
	}
	return s.schedules.ListByFlightBetween(ctx, flightID, from, to)
}

func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	return s.schedules.Delete(ctx, id)
}

func (s *ScheduleService) requireFlight(ctx context.Context, flightID int64) error {
	exists, err := s.flights.Exists(ctx, flightID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrFlightNotFound
	}
	return nil
}

var _ ScheduleUseCase = (*ScheduleService)(nil)
