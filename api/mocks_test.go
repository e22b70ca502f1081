package api

import (
	"context"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/Domenick1991/airtickets/internal/service/identity"
	"github.com/Domenick1991/airtickets/internal/service/tickets"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Create(ctx context.Context, in domain.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, in)
	return flightArg(args)
}

func (m *MockFlightUseCase) Update(ctx context.Context, id int64, in domain.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, id, in)
	return flightArg(args)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	return flightArg(args)
}

func (m *MockFlightUseCase) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	args := m.Called(ctx, number)
	return flightArg(args)
}

func (m *MockFlightUseCase) List(ctx context.Context, order domain.SortOrder) ([]domain.Flight, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFlightUseCase) ReserveSeat(ctx context.Context, flightID int64) (*domain.Flight, error) {
	args := m.Called(ctx, flightID)
	return flightArg(args)
}

func (m *MockFlightUseCase) ReleaseSeat(ctx context.Context, flightID int64) (*domain.Flight, error) {
	args := m.Called(ctx, flightID)
	return flightArg(args)
}

func flightArg(args mock.Arguments) (*domain.Flight, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockScheduleUseCase struct {
	mock.Mock
}

func (m *MockScheduleUseCase) Create(ctx context.Context, in domain.ScheduleInput) (*domain.Schedule, error) {
	return scheduleArg(m.Called(ctx, in))
}

func (m *MockScheduleUseCase) Update(ctx context.Context, id int64, in domain.ScheduleInput) (*domain.Schedule, error) {
	return scheduleArg(m.Called(ctx, id, in))
}

func (m *MockScheduleUseCase) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	return scheduleArg(m.Called(ctx, id))
}

func (m *MockScheduleUseCase) ListForFlight(ctx context.Context, flightID int64, days domain.DateRange) ([]domain.Schedule, error) {
	args := m.Called(ctx, flightID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Schedule), args.Error(1)
}

func (m *MockScheduleUseCase) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func scheduleArg(args mock.Arguments) (*domain.Schedule, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schedule), args.Error(1)
}

type MockTicketUseCase struct {
	mock.Mock
}

func (m *MockTicketUseCase) Create(ctx context.Context, userID int64, in tickets.CreateTicketInput) (*tickets.TicketView, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.TicketView), args.Error(1)
}

func (m *MockTicketUseCase) Find(ctx context.Context, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) Get(ctx context.Context, id int64) (*tickets.TicketView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.TicketView), args.Error(1)
}

func (m *MockTicketUseCase) Describe(ctx context.Context, ticket *domain.Ticket) *tickets.TicketView {
	return m.Called(ctx, ticket).Get(0).(*tickets.TicketView)
}

func (m *MockTicketUseCase) ListForUser(ctx context.Context, userID int64) ([]tickets.TicketView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tickets.TicketView), args.Error(1)
}

func (m *MockTicketUseCase) ListAll(ctx context.Context) ([]tickets.TicketView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tickets.TicketView), args.Error(1)
}

func (m *MockTicketUseCase) Cancel(ctx context.Context, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(ctx context.Context, in identity.RegisterInput) (*domain.User, error) {
	return userArg(m.Called(ctx, in))
}

func (m *MockUserUseCase) Login(ctx context.Context, username, password string) (*identity.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func (m *MockUserUseCase) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return userArg(m.Called(ctx, username))
}

func (m *MockUserUseCase) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return userArg(m.Called(ctx, id))
}

func (m *MockUserUseCase) EnsureAdmin(ctx context.Context, in identity.RegisterInput) error {
	return m.Called(ctx, in).Error(0)
}

func userArg(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
