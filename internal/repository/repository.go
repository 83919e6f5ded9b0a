// Package repository implements all database queries for the festival
// registration service. It uses pgx directly (no ORM).
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/festival"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventFull is returned when an offering has no remaining capacity.
var ErrEventFull = errors.New("event is fully booked")

// RegistrationRepository handles persistence for registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create stores a registration and its items in one transaction. Each
// item's offering is checked against capacity by counting its existing
// registrations; there is no row lock, so two submissions racing for the
// last slot may both succeed.
func (r *RegistrationRepository) Create(ctx context.Context, reg *model.Registration, capacity int) (err error) {
	birth, err := time.Parse(festival.BirthDateLayout, reg.BirthDate)
	if err != nil {
		return fmt.Errorf("parse birth date: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, it := range reg.Items {
		var booked int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM registration_items ri
			 JOIN registrations r ON r.id = ri.registration_id
			 WHERE ri.event_id = $1 AND r.payment_status <> $2`,
			it.EventID, model.PaymentCancelled,
		).Scan(&booked)
		if err != nil {
			return fmt.Errorf("count bookings: %w", err)
		}
		if booked >= capacity {
			err = fmt.Errorf("%s: %w", it.EventID, ErrEventFull)
			return err
		}
	}

	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	reg.CreatedAt, reg.UpdatedAt = now, now
	if reg.PaymentStatus == "" {
		reg.PaymentStatus = model.PaymentPending
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (id, name, document, email, phone, birth_date, school,
		   choreographer, notes, total_cents, payment_status, payment_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		reg.ID, reg.Name, reg.Document, reg.Email, reg.Phone, birth, reg.School,
		reg.Choreographer, reg.Notes, reg.TotalCents, reg.PaymentStatus, reg.PaymentID, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}

	for _, it := range reg.Items {
		names := it.Names
		if names == nil {
			names = []string{}
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO registration_items (registration_id, event_id, title, style, modality,
			   category, participants, names, price_cents)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			reg.ID, it.EventID, it.Title, it.Style, it.Modality, it.Category, it.Participants, names, it.PriceCents,
		)
		if err != nil {
			return fmt.Errorf("insert registration item: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const registrationColumns = `id, name, document, email, phone, birth_date, school, choreographer,
	notes, total_cents, payment_status, payment_id, created_at, updated_at`

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	var birth time.Time
	err := row.Scan(&reg.ID, &reg.Name, &reg.Document, &reg.Email, &reg.Phone, &birth, &reg.School,
		&reg.Choreographer, &reg.Notes, &reg.TotalCents, &reg.PaymentStatus, &reg.PaymentID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	reg.BirthDate = birth.Format(festival.BirthDateLayout)
	return &reg, nil
}

// GetByID returns a registration with its items, or ErrNotFound.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	items, err := r.items(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	reg.Items = items
	return reg, nil
}

func (r *RegistrationRepository) items(ctx context.Context, registrationID string) ([]model.RegistrationItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT event_id, title, style, modality, category, participants, names, price_cents
		 FROM registration_items WHERE registration_id = $1 ORDER BY event_id`,
		registrationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list registration items: %w", err)
	}
	defer rows.Close()

	items := []model.RegistrationItem{}
	for rows.Next() {
		var it model.RegistrationItem
		if err := rows.Scan(&it.EventID, &it.Title, &it.Style, &it.Modality, &it.Category,
			&it.Participants, &it.Names, &it.PriceCents); err != nil {
			return nil, fmt.Errorf("scan registration item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List returns all registrations ordered by creation time descending,
// without items.
func (r *RegistrationRepository) List(ctx context.Context) ([]model.Registration, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+registrationColumns+` FROM registrations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

// UpdatePayment records the payment id and status of a registration.
func (r *RegistrationRepository) UpdatePayment(ctx context.Context, id, paymentID, status string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE registrations SET payment_id = $2, payment_status = $3, updated_at = $4 WHERE id = $1`,
		id, paymentID, status, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Dashboard aggregates registration, contact and donation figures.
func (r *RegistrationRepository) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	d := &model.Dashboard{ByStyle: map[string]int{}, ByModality: map[string]int{}}

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE payment_status = 'approved'),
		        COUNT(*) FILTER (WHERE payment_status = 'pending'),
		        COALESCE(SUM(total_cents) FILTER (WHERE payment_status = 'approved'), 0)
		 FROM registrations`,
	).Scan(&d.Registrations, &d.Paid, &d.Pending, &d.RevenueCents)
	if err != nil {
		return nil, fmt.Errorf("registration totals: %w", err)
	}

	if err := r.countBy(ctx, "style", d.ByStyle); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, "modality", d.ByModality); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&d.Contacts)
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount_cents), 0) FROM donations`,
	).Scan(&d.Donations, &d.DonationsCents)
	if err != nil {
		return nil, fmt.Errorf("donation totals: %w", err)
	}
	return d, nil
}

// countBy fills dst with item counts grouped by column, which must be a
// trusted identifier.
func (r *RegistrationRepository) countBy(ctx context.Context, column string, dst map[string]int) error {
	rows, err := r.db.Query(ctx,
		`SELECT `+column+`, COUNT(*) FROM registration_items GROUP BY `+column)
	if err != nil {
		return fmt.Errorf("count items by %s: %w", column, err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		dst[key] = n
	}
	return rows.Err()
}

// ContactRepository handles persistence for contact messages.
type ContactRepository struct {
	db *pgxpool.Pool
}

// NewContactRepository constructs a ContactRepository.
func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a contact message and returns it with a generated UUID.
func (r *ContactRepository) Create(ctx context.Context, req model.ContactRequest) (*model.Contact, error) {
	c := &model.Contact{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO contacts (id, name, email, phone, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Email, c.Phone, c.Message, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	return c, nil
}

// DonationRepository handles persistence for donations.
type DonationRepository struct {
	db *pgxpool.Pool
}

// NewDonationRepository constructs a DonationRepository.
func NewDonationRepository(db *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{db: db}
}

// Create inserts a donation and returns it with a generated UUID.
func (r *DonationRepository) Create(ctx context.Context, req model.DonationRequest) (*model.Donation, error) {
	d := &model.Donation{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		AmountCents: req.AmountCents,
		Message:     req.Message,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO donations (id, name, email, amount_cents, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.Name, d.Email, d.AmountCents, d.Message, d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}
	return d, nil
}
