package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/airtickets/internal/domain"
)

// FlightsClient talks to the flights service. Lookups forward the caller's
// token; seat bookkeeping uses the service token.
type FlightsClient struct {
	rest         restClient
	retries      uint64
	serviceToken TokenSource
}

func NewFlightsClient(baseURL string, timeout time.Duration, retries int, serviceToken TokenSource) *FlightsClient {
	if retries < 0 {
		retries = 0
	}
	return &FlightsClient{
		rest:         newRestClient(baseURL, timeout),
		retries:      uint64(retries),
		serviceToken: serviceToken,
	}
}

func (c *FlightsClient) GetFlight(ctx context.Context, id int64) (*domain.Flight, error) {
	var flight domain.Flight
	if err := c.rest.lookup(ctx, fmt.Sprintf("/flights/%d", id), CallerToken, c.retries, domain.ErrFlightNotFound, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (c *FlightsClient) GetSchedule(ctx context.Context, id int64) (*domain.Schedule, error) {
	var schedule domain.Schedule
	if err := c.rest.lookup(ctx, fmt.Sprintf("/flights/schedules/%d", id), CallerToken, c.retries, domain.ErrScheduleNotFound, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *FlightsClient) ReserveSeat(ctx context.Context, flightID int64) error {
	return c.seat(ctx, flightID, "reserve", domain.ErrNoSeatsAvailable)
}

func (c *FlightsClient) ReleaseSeat(ctx context.Context, flightID int64) error {
	return c.seat(ctx, flightID, "release", fmt.Errorf("%w: no booked seats to release", domain.ErrConflict))
}

func (c *FlightsClient) seat(ctx context.Context, flightID int64, action string, conflict error) error {
	err := c.rest.mutate(ctx, fmt.Sprintf("/flights/%d/seats/%s", flightID, action), c.serviceToken, nil)
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case http.StatusNotFound:
			return domain.ErrFlightNotFound
		case http.StatusBadRequest, http.StatusConflict:
			return conflict
		}
	}
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s seat: %v", domain.ErrUpstreamUnavailable, action, err)
}
