// Package model defines the persisted records and the request/response
// payloads of the registration API.
package model

import (
	"time"

	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/festival"
)

// Payment statuses reported by the payment layer.
const (
	PaymentPending   = "pending"
	PaymentApproved  = "approved"
	PaymentRejected  = "rejected"
	PaymentCancelled = "cancelled"
)

// Registration is a submitted festival registration.
type Registration struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Document      string             `json:"document"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	BirthDate     string             `json:"birth_date"`
	School        string             `json:"school,omitempty"`
	Choreographer string             `json:"choreographer,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	TotalCents    int64              `json:"total_cents"`
	PaymentStatus string             `json:"payment_status"`
	PaymentID     string             `json:"payment_id,omitempty"`
	Items         []RegistrationItem `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Total returns the registration amount.
func (r *Registration) Total() festival.Money { return festival.Money(r.TotalCents) }

// RegistrationItem is one offering inside a registration.
type RegistrationItem struct {
	EventID      string   `json:"event_id"`
	Title        string   `json:"title"`
	Style        string   `json:"style"`
	Modality     string   `json:"modality"`
	Category     string   `json:"category"`
	Participants int      `json:"participants"`
	Names        []string `json:"names"`
	PriceCents   int64    `json:"price_cents"`
}

// Contact is a message left through the contact form.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Donation is a pledge made to the festival.
type Donation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AmountCents int64     `json:"amount_cents"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToggleRequest is the payload of POST /sessions/{id}/toggle.
type ToggleRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

// ParticipantsRequest is the payload of PUT /sessions/{id}/participants.
type ParticipantsRequest struct {
	EventID string `json:"event_id" validate:"required"`
	Count   int    `json:"count"`
}

// ContactRequest is the payload of POST /contacts.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Message string `json:"message" validate:"required,max=4000"`
}

// DonationRequest is the payload of POST /donations.
type DonationRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0,lte=100000000"`
	Message     string `json:"message" validate:"omitempty,max=1000"`
}

// PaymentUpdateRequest is the payment confirmation signal for a
// registration.
type PaymentUpdateRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=pending approved rejected cancelled"`
}

// LoginRequest is the payload of POST /admin/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries an admin access token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionItem is one selected offering as shown to the applicant.
type SessionItem struct {
	Offering     festival.Offering `json:"offering"`
	Participants int               `json:"participants"`
	NameSlots    int               `json:"name_slots"`
	PriceCents   int64             `json:"price_cents"`
	Price        string            `json:"price"`
}

// SessionView is the state of a selection session.
type SessionView struct {
	SessionID  string           `json:"session_id"`
	Items      []SessionItem    `json:"items"`
	Summary    festival.Summary `json:"summary"`
	TotalCents int64            `json:"total_cents"`
	Total      string           `json:"total"`
}

// SubmitResponse is returned after a registration is accepted.
type SubmitResponse struct {
	RegistrationID string        `json:"registration_id"`
	TotalCents     int64         `json:"total_cents"`
	Total          string        `json:"total"`
	Warnings       []string      `json:"warnings"`
	Registration   *Registration `json:"registration"`
}

// Dashboard aggregates registrations for the admin area.
type Dashboard struct {
	Registrations  int            `json:"registrations"`
	Paid           int            `json:"paid"`
	Pending        int            `json:"pending"`
	RevenueCents   int64          `json:"revenue_cents"`
	ByStyle        map[string]int `json:"by_style"`
	ByModality     map[string]int `json:"by_modality"`
	Contacts       int            `json:"contacts"`
	Donations      int            `json:"donations"`
	DonationsCents int64          `json:"donations_cents"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse is returned with 422 when a registration fails the
// eligibility checks.
type ValidationResponse struct {
	Error  string          `json:"error"`
	Result festival.Result `json:"result"`
}
