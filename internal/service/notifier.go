package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Event types published on the notification channel
const (
	EventAppointmentScheduled = "appointment.scheduled"
)

// AppointmentEvent is what downstream notification workers receive.
type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name"`
	PatientName   string    `json:"patient_name"`
	PatientPhone  string    `json:"patient_phone"`
	PatientEmail  string    `json:"patient_email,omitempty"`
	Date          string    `json:"date"`
	Slot          string    `json:"slot"`
	QueueNumber   int       `json:"queue_number"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier delivers appointment events. Callers treat failures as non-fatal.
type Notifier interface {
	Publish(ctx context.Context, event AppointmentEvent) error
}

type redisNotifier struct {
	redisClient *redis.Client
	log         *logrus.Logger
	channel     string
}

func NewRedisNotifier(redisClient *redis.Client, log *logrus.Logger, channel string) Notifier {
	return &redisNotifier{
		redisClient: redisClient,
		log:         log,
		channel:     channel,
	}
}

func (n *redisNotifier) Publish(ctx context.Context, event AppointmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	receivers, err := n.redisClient.Publish(ctx, n.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish %s event on %s: %w", event.Type, n.channel, err)
	}

	n.log.Debugf("Published %s for appointment %s to %d subscribers", event.Type, event.AppointmentID, receivers)
	return nil
}
