package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airtickets/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender turns ticket events into passenger notifications. Delivery is a log
// line until a mail provider is wired in.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	subject, err := Subject(event)
	if err != nil {
		s.log.WithField("type", event.Type).Warn("skipping unknown ticket event")
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"user_id":   event.UserID,
		"ticket_id": event.TicketID,
		"flight_id": event.FlightID,
		"event_id":  event.ID,
	}).Info(subject)
	return nil
}

func Subject(event kafka.TicketEvent) (string, error) {
	switch event.Type {
	case kafka.EventTicketBooked:
		return fmt.Sprintf("Ticket #%d booked for %s", event.TicketID, event.PassengerName), nil
	case kafka.EventTicketCancelled:
		return fmt.Sprintf("Ticket #%d for %s was cancelled", event.TicketID, event.PassengerName), nil
	default:
		return "", fmt.Errorf("unknown event type %q", event.Type)
	}
}
