package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "SCHEDULED"
	ScheduleStatusDelayed   ScheduleStatus = "DELAYED"
	ScheduleStatusDeparted  ScheduleStatus = "DEPARTED"
	ScheduleStatusArrived   ScheduleStatus = "ARRIVED"
	ScheduleStatusCancelled ScheduleStatus = "CANCELLED"
	ScheduleStatusCompleted ScheduleStatus = "COMPLETED"
)

func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleStatusScheduled, ScheduleStatusDelayed, ScheduleStatusDeparted,
		ScheduleStatusArrived, ScheduleStatusCancelled, ScheduleStatusCompleted:
		return true
	}
	return false
}

type Schedule struct {
	ID            int64          `json:"id"`
	FlightID      int64          `json:"flight_id"`
	DepartureTime time.Time      `json:"departure_time"`
	ArrivalTime   time.Time      `json:"arrival_time"`
	Status        ScheduleStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type ScheduleInput struct {
	FlightID      int64
	DepartureTime time.Time
	ArrivalTime   time.Time
	Status        ScheduleStatus
}

func (in ScheduleInput) Validate() error {
	if in.FlightID <= 0 {
		return Validationf("flight id is required")
	}
	if !in.DepartureTime.Before(in.ArrivalTime) {
		return ErrInvalidTimeRange
	}
	if in.Status != "" && !in.Status.Valid() {
		return Validationf("unknown schedule status %q", in.Status)
	}
	return nil
}

// DateRange is an optional pair of calendar days used to filter schedules by
// departure time.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Resolve turns the day range into an inclusive [from, to] window. A single
// bound is treated as a one-day query. ok is false when no bound is set.
func (r DateRange) Resolve() (from, to time.Time, ok bool, err error) {
	start, end := r.Start, r.End
	switch {
	case start == nil && end == nil:
		return time.Time{}, time.Time{}, false, nil
	case start == nil:
		start = end
	case end == nil:
		end = start
	}

	from = startOfDay(*start)
	to = startOfDay(*end).Add(24*time.Hour - time.Nanosecond)
	if from.After(to) {
		return time.Time{}, time.Time{}, false, ErrInvalidTimeRange
	}
	return from, to, true, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
