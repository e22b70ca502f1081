package domain

import (
	"strings"
	"time"
)

type Flight struct {
	ID             int64     `json:"id"`
	FlightNumber   string    `json:"flight_number"`
	Airline        string    `json:"airline"`
	DepartureCity  string    `json:"departure_city"`
	ArrivalCity    string    `json:"arrival_city"`
	PriceCents     int64     `json:"price_cents"`
	Capacity       int       `json:"capacity"`
	AvailableSeats int       `json:"available_seats"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BookedSeats is the number of seats already committed to tickets.
func (f Flight) BookedSeats() int {
	return f.Capacity - f.AvailableSeats
}

type FlightInput struct {
	FlightNumber  string
	Airline       string
	DepartureCity string
	ArrivalCity   string
	PriceCents    int64
	Capacity      int
}

func (in FlightInput) Validate() error {
	if strings.TrimSpace(in.FlightNumber) == "" {
		return Validationf("flight number is required")
	}
	if in.Capacity < 0 {
		return Validationf("capacity must not be negative")
	}
	if in.PriceCents < 0 {
		return Validationf("price must not be negative")
	}
	return nil
}

// NewFlight builds a fresh flight with every seat available.
func NewFlight(in FlightInput) Flight {
	return Flight{
		FlightNumber:   in.FlightNumber,
		Airline:        in.Airline,
		DepartureCity:  in.DepartureCity,
		ArrivalCity:    in.ArrivalCity,
		PriceCents:     in.PriceCents,
		Capacity:       in.Capacity,
		AvailableSeats: in.Capacity,
	}
}

// Apply returns a copy of f with in applied. Seats already booked stay booked,
// so the new capacity must cover them.
func (f Flight) Apply(in FlightInput) (Flight, error) {
	booked := f.BookedSeats()
	if in.Capacity < booked {
		return f, ErrCapacityBelowBooked
	}

	next := f
	next.FlightNumber = in.FlightNumber
	next.Airline = in.Airline
	next.DepartureCity = in.DepartureCity
	next.ArrivalCity = in.ArrivalCity
	next.PriceCents = in.PriceCents
	next.Capacity = in.Capacity
	next.AvailableSeats = in.Capacity - booked
	return next, nil
}

type SortOrder string

const (
	SortNatural SortOrder = ""
	SortAsc     SortOrder = "asc"
	SortDesc    SortOrder = "desc"
)

// ParseSortOrder maps unknown tokens to natural order instead of failing.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortAsc:
		return SortAsc
	case SortDesc:
		return SortDesc
	default:
		return SortNatural
	}
}
