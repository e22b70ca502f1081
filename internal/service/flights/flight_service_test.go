package flights

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFlightService(repo *MockFlightRepository, cache *MockCache) *FlightService {
	log, _ := test.NewNullLogger()
	if cache == nil {
		return NewFlightService(repo, log)
	}
	return NewFlightService(repo, log, WithFlightCache(cache))
}

func sampleFlights() []domain.Flight {
	return []domain.Flight{
		{ID: 4, FlightNumber: "SU100", DepartureCity: "Moscow", ArrivalCity: "Saint Petersburg", Capacity: 150, AvailableSeats: 149, PriceCents: 500000},
	}
}

func TestFlightService_Create(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := newFlightService(mockRepo, mockCache)
	ctx := context.Background()

	mockRepo.On("GetByNumber", ctx, "AA100").Return(nil, domain.ErrFlightNotFound).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(f *domain.Flight) bool {
		return f.FlightNumber == "AA100" && f.Capacity == 2 && f.AvailableSeats == 2
	})).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	flight, err := service.Create(ctx, domain.FlightInput{FlightNumber: "AA100", Capacity: 2, PriceCents: 10000})

	require.NoError(t, err)
	assert.Equal(t, int64(1), flight.ID)
	assert.Equal(t, 2, flight.AvailableSeats)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Create_DuplicateNumber(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newFlightService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByNumber", ctx, "AA100").Return(&domain.Flight{ID: 3, FlightNumber: "AA100"}, nil).Once()

	_, err := service.Create(ctx, domain.FlightInput{FlightNumber: "AA100", Capacity: 2})

	assert.ErrorIs(t, err, domain.ErrDuplicateFlightNumber)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlightService_Create_Invalid(t *testing.T) {
	service := newFlightService(&MockFlightRepository{}, nil)

	_, err := service.Create(context.Background(), domain.FlightInput{FlightNumber: "AA100", Capacity: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Create(context.Background(), domain.FlightInput{Capacity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlightService_Update_KeepsBookedSeats(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := newFlightService(mockRepo, mockCache)
	ctx := context.Background()

	stored := &domain.Flight{ID: 7, FlightNumber: "AA100", Capacity: 10, AvailableSeats: 6, Version: 3}
	mockRepo.On("GetByID", ctx, int64(7)).Return(stored, nil).Once()
	mockRepo.On("Update", ctx, mock.MatchedBy(func(f *domain.Flight) bool {
		return f.Capacity == 8 && f.AvailableSeats == 4 && f.Version == 3
	})).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	flight, err := service.Update(ctx, 7, domain.FlightInput{FlightNumber: "AA100", Capacity: 8})

	require.NoError(t, err)
	assert.Equal(t, 4, flight.AvailableSeats)
	assert.Equal(t, int64(4), flight.Version)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Update_CapacityBelowBooked(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newFlightService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(7)).Return(&domain.Flight{ID: 7, FlightNumber: "AA100", Capacity: 10, AvailableSeats: 4}, nil).Once()

	_, err := service.Update(ctx, 7, domain.FlightInput{FlightNumber: "AA100", Capacity: 5})

	assert.ErrorIs(t, err, domain.ErrCapacityBelowBooked)
	assert.ErrorIs(t, err, domain.ErrConflict)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestFlightService_Update_RenameCollision(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newFlightService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(7)).Return(&domain.Flight{ID: 7, FlightNumber: "AA100", Capacity: 10, AvailableSeats: 10}, nil).Once()
	mockRepo.On("GetByNumber", ctx, "BB200").Return(&domain.Flight{ID: 8, FlightNumber: "BB200"}, nil).Once()

	_, err := service.Update(ctx, 7, domain.FlightInput{FlightNumber: "BB200", Capacity: 10})

	assert.ErrorIs(t, err, domain.ErrDuplicateFlightNumber)
}

func TestFlightService_Update_RetriesOnVersionConflict(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newFlightService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(7)).Return(&domain.Flight{ID: 7, FlightNumber: "AA100", Capacity: 10, AvailableSeats: 10}, nil).Times(2)
	mockRepo.On("Update", ctx, mock.Anything).Return(domain.ErrVersionConflict).Once()
	mockRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

	_, err := service.Update(ctx, 7, domain.FlightInput{FlightNumber: "AA100", Capacity: 12})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Update_GivesUpAfterThreeConflicts(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newFlightService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(7)).Return(&domain.Flight{ID: 7, FlightNumber: "AA100", Capacity: 10, AvailableSeats: 10}, nil).Times(3)
	mockRepo.On("Update", ctx, mock.Anything).Return(domain.ErrVersionConflict).Times(3)

	_, err := service.Update(ctx, 7, domain.FlightInput{FlightNumber: "AA100", Capacity: 12})

	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Update_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newFlightService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(404)).Return(nil, domain.ErrFlightNotFound).Once()

	_, err := service.Update(ctx, 404, domain.FlightInput{FlightNumber: "AA100", Capacity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlightService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := newFlightService(mockRepo, mockCache)
	ctx := context.Background()
	flights := sampleFlights()

	var calls []string
	mockCache.On("GetFlights", ctx, domain.SortAsc).Return(nil, nil).Once()
	mockCache.On("FlightsGeneration", ctx).Return(int64(7), nil).Once().
		Run(func(mock.Arguments) { calls = append(calls, "generation") })
	mockRepo.On("List", ctx, domain.SortAsc).Return(flights, nil).Once().
		Run(func(mock.Arguments) { calls = append(calls, "list") })
	mockCache.On("SetFlights", ctx, domain.SortAsc, int64(7), flights).Return(nil).Once()

	result, err := service.List(ctx, domain.SortAsc)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	assert.Equal(t, []string{"generation", "list"}, calls)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_GenerationErrorSkipsCacheWrite(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := newFlightService(mockRepo, mockCache)
	ctx := context.Background()
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx, domain.SortAsc).Return(nil, nil).Once()
	mockCache.On("FlightsGeneration", ctx).Return(int64(0), errors.New("redis down")).Once()
	mockRepo.On("List", ctx, domain.SortAsc).Return(flights, nil).Once()

	result, err := service.List(ctx, domain.SortAsc)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockCache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_List_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := newFlightService(mockRepo, mockCache)
	ctx := context.Background()
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx, domain.SortNatural).Return(flights, nil).Once()

	result, err := service.List(ctx, domain.SortNatural)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	mockCache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_List_CacheErrorFallsBackToRepository(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := newFlightService(mockRepo, mockCache)
	ctx := context.Background()
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx, domain.SortDesc).Return(nil, errors.New("cache error")).Once()
	mockCache.On("FlightsGeneration", ctx).Return(int64(3), nil).Once()
	mockRepo.On("List", ctx, domain.SortDesc).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, domain.SortDesc, int64(3), flights).Return(errors.New("cache error")).Once()

	result, err := service.List(ctx, domain.SortDesc)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockCache.AssertExpectations(t)
}

func TestFlightService_List_RepositoryError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newFlightService(mockRepo, nil)
	ctx := context.Background()

	expectedErr := errors.New("database error")
	mockRepo.On("List", ctx, domain.SortNatural).Return(nil, expectedErr).Once()

	result, err := service.List(ctx, domain.SortNatural)

	assert.Nil(t, result)
	assert.Equal(t, expectedErr, err)
}

func TestFlightService_GetByNumber(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newFlightService(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetByNumber", ctx, "SU100").Return(&sampleFlights()[0], nil).Once()
	mockRepo.On("GetByNumber", ctx, "XX1").Return(nil, domain.ErrFlightNotFound).Once()

	flight, err := service.GetByNumber(ctx, "SU100")
	require.NoError(t, err)
	assert.Equal(t, int64(4), flight.ID)

	_, err = service.GetByNumber(ctx, "XX1")
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}

func TestFlightService_Delete(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := newFlightService(mockRepo, mockCache)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(4)).Return(nil).Once()
	mockRepo.On("Delete", ctx, int64(5)).Return(domain.ErrFlightNotFound).Once()
	mockCache.On("InvalidateFlights", ctx).Return(errors.New("redis down")).Once()

	assert.NoError(t, service.Delete(ctx, 4))
	assert.ErrorIs(t, service.Delete(ctx, 5), domain.ErrFlightNotFound)
	mockCache.AssertExpectations(t)
}

func TestFlightService_ReserveAndReleaseSeat(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := newFlightService(mockRepo, mockCache)
	ctx := context.Background()

	mockRepo.On("ReserveSeat", ctx, int64(1)).Return(&domain.Flight{ID: 1, Capacity: 2, AvailableSeats: 1}, nil).Once()
	mockRepo.On("ReserveSeat", ctx, int64(2)).Return(nil, domain.ErrNoSeatsAvailable).Once()
	mockRepo.On("ReleaseSeat", ctx, int64(1)).Return(&domain.Flight{ID: 1, Capacity: 2, AvailableSeats: 2}, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Twice()

	flight, err := service.ReserveSeat(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, flight.AvailableSeats)

	_, err = service.ReserveSeat(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNoSeatsAvailable)

	flight, err = service.ReleaseSeat(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, flight.AvailableSeats)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}
