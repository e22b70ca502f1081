package flights

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/Domenick1991/airtickets/internal/repository"
	"github.com/sirupsen/logrus"
)

// maxUpdateAttempts bounds the read-compute-write loop of Update.
const maxUpdateAttempts = 3

type FlightUseCase interface {
	Create(ctx context.Context, in domain.FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, in domain.FlightInput) (*domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetByNumber(ctx context.Context, number string) (*domain.Flight, error)
	List(ctx context.Context, order domain.SortOrder) ([]domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	ReserveSeat(ctx context.Context, flightID int64) (*domain.Flight, error)
	ReleaseSeat(ctx context.Context, flightID int64) (*domain.Flight, error)
}

// FlightCache is the listing cache. GetFlights returns nil, nil on a miss.
// SetFlights drops the write when the generation moved since it was read.
type FlightCache interface {
	GetFlights(ctx context.Context, order domain.SortOrder) ([]domain.Flight, error)
	FlightsGeneration(ctx context.Context) (int64, error)
	SetFlights(ctx context.Context, order domain.SortOrder, generation int64, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
	log   logrus.FieldLogger
}

type FlightOption func(*FlightService)

// WithFlightCache enables cache-aside listing.
func WithFlightCache(cache FlightCache) FlightOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func NewFlightService(repo repository.FlightRepository, log logrus.FieldLogger, opts ...FlightOption) *FlightService {
	s := &FlightService{repo: repo, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) Create(ctx context.Context, in domain.FlightInput) (*domain.Flight, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByNumber(ctx, in.FlightNumber); err == nil {
		return nil, domain.ErrDuplicateFlightNumber
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check flight number: %w", err)
	}

	flight := domain.NewFlight(in)
	if err := s.repo.Create(ctx, &flight); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return &flight, nil
}

// Update applies in on top of the stored flight, keeping booked seats booked.
// A concurrent writer makes the attempt start over from a fresh read.
func (s *FlightService) Update(ctx context.Context, id int64, in domain.FlightInput) (*domain.Flight, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if in.FlightNumber != current.FlightNumber {
			other, err := s.repo.GetByNumber(ctx, in.FlightNumber)
			if err == nil && other.ID != id {
				return nil, domain.ErrDuplicateFlightNumber
			}
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("check flight number: %w", err)
			}
		}

		next, err := current.Apply(in)
		if err != nil {
			return nil, err
		}

		err = s.repo.Update(ctx, &next)
		if errors.Is(err, domain.ErrVersionConflict) {
			s.log.WithFields(logrus.Fields{"flight_id": id, "attempt": attempt}).Debug("flight version conflict, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		s.invalidate(ctx)
		return &next, nil
	}

	return nil, domain.ErrVersionConflict
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *FlightService) List(ctx context.Context, order domain.SortOrder) ([]domain.Flight, error) {
	cacheable := false
	var generation int64
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx, order)
		if err != nil {
			s.log.WithError(err).Warn("flight cache read failed")
		} else if cached != nil {
			return cached, nil
		}

		// read before the database so a concurrent invalidation voids the write
		generation, err = s.cache.FlightsGeneration(ctx)
		if err != nil {
			s.log.WithError(err).Warn("flight cache generation read failed")
		} else {
			cacheable = true
		}
	}

	flights, err := s.repo.List(ctx, order)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetFlights(ctx, order, generation, flights); err != nil {
			s.log.WithError(err).Warn("flight cache write failed")
		}
	}
	return flights, nil
}

// Delete removes the flight and its schedules. Tickets already booked on it
// are left untouched.
func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) ReserveSeat(ctx context.Context, flightID int64) (*domain.Flight, error) {
	flight, err := s.repo.ReserveSeat(ctx, flightID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) ReleaseSeat(ctx context.Context, flightID int64) (*domain.Flight, error) {
	flight, err := s.repo.ReleaseSeat(ctx, flightID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.WithError(err).Warn("flight cache invalidation failed")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
