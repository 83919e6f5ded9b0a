// Package queue defines the domain events published to RabbitMQ and the
// publisher that sends them.
package queue

// Queue names.
const (
	QueueRegistrationSubmitted = "registration.submitted"
	QueueRegistrationPaid      = "registration.paid"
)

// RegistrationSubmittedEvent is published after a registration is stored.
// It carries enough for notification and reporting consumers to work
// without reading the database.
type RegistrationSubmittedEvent struct {
	RegistrationID string   `json:"registration_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	EventIDs       []string `json:"event_ids"`
	Titles         []string `json:"titles"`
	TotalCents     int64    `json:"total_cents"`
	SubmittedAt    string   `json:"submitted_at"`
}

// RegistrationPaidEvent is published when the payment layer approves a
// registration.
type RegistrationPaidEvent struct {
	RegistrationID string `json:"registration_id"`
	PaymentID      string `json:"payment_id"`
	TotalCents     int64  `json:"total_cents"`
	PaidAt         string `json:"paid_at"`
}
