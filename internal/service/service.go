// Package service implements the registration workflow: selection sessions,
// eligibility checks, submission, payment updates and the admin figures.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/festival"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/model"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/queue"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/session"
)

// ValidationError carries a failed eligibility result.
type ValidationError struct {
	Result festival.Result
}

func (e *ValidationError) Error() string {
	return "registration is not valid: " + strings.Join(e.Result.Errors, "; ")
}

// RequestError reports a malformed request payload.
type RequestError struct {
	Msg string
}

func (e *RequestError) Error() string { return e.Msg }

// RegistrationStore persists registrations.
type RegistrationStore interface {
	Create(ctx context.Context, reg *model.Registration, capacity int) error
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	List(ctx context.Context) ([]model.Registration, error)
	UpdatePayment(ctx context.Context, id, paymentID, status string) error
	Dashboard(ctx context.Context) (*model.Dashboard, error)
}

// ContactStore persists contact messages.
type ContactStore interface {
	Create(ctx context.Context, req model.ContactRequest) (*model.Contact, error)
}

// DonationStore persists donations.
type DonationStore interface {
	Create(ctx context.Context, req model.DonationRequest) (*model.Donation, error)
}

// Deps groups the collaborators of a Service.
type Deps struct {
	Catalog       *festival.Catalog
	Sessions      session.Store
	Registrations RegistrationStore
	Contacts      ContactStore
	Donations     DonationStore
	Publisher     queue.Publisher
	Logger        *logrus.Logger
	Now           func() time.Time
}

// Service orchestrates the registration workflow.
type Service struct {
	catalog       *festival.Catalog
	validator     *festival.Validator
	sessions      session.Store
	registrations RegistrationStore
	contacts      ContactStore
	donations     DonationStore
	publisher     queue.Publisher
	log           *logrus.Logger
	now           func() time.Time
	validate      *validator.Validate
}

// New constructs a Service. Publisher defaults to queue.NopPublisher and Now
// to time.Now.
func New(d Deps) *Service {
	if d.Publisher == nil {
		d.Publisher = queue.NopPublisher{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	return &Service{
		catalog:       d.Catalog,
		validator:     festival.NewValidator(d.Catalog, d.Now),
		sessions:      d.Sessions,
		registrations: d.Registrations,
		contacts:      d.Contacts,
		donations:     d.Donations,
		publisher:     d.Publisher,
		log:           d.Logger,
		now:           d.Now,
		validate:      newValidate(),
	}
}

// newValidate reports fields by their JSON names.
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ─── Catalog ──────────────────────────────────────────────────────────────────

// ListOfferings returns the catalog entries matching f.
func (s *Service) ListOfferings(f festival.CatalogFilter) []festival.Offering {
	out := s.catalog.Filter(f)
	if out == nil {
		out = []festival.Offering{}
	}
	return out
}

// GetOffering returns one catalog entry.
func (s *Service) GetOffering(id string) (festival.Offering, error) {
	o, ok := s.catalog.Lookup(id)
	if !ok {
		return festival.Offering{}, fmt.Errorf("offering %q: %w", id, festival.ErrUnknownEvent)
	}
	return o, nil
}

// ─── Sessions ─────────────────────────────────────────────────────────────────

// CreateSession starts an empty selection.
func (s *Service) CreateSession(ctx context.Context) (*model.SessionView, error) {
	id := uuid.New().String()
	sel := festival.NewSelection(s.catalog)
	if err := s.sessions.Save(ctx, id, sel.Snapshot()); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s.view(id, sel)
}

// GetSession returns the current state of a session.
func (s *Service) GetSession(ctx context.Context, id string) (*model.SessionView, error) {
	sel, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(id, sel)
}

// Toggle selects or deselects an offering. Ids outside the catalog are
// rejected with festival.ErrUnknownEvent.
func (s *Service) Toggle(ctx context.Context, id, eventID string) (*model.SessionView, error) {
	if _, ok := s.catalog.Lookup(eventID); !ok {
		return nil, fmt.Errorf("toggle %q: %w", eventID, festival.ErrUnknownEvent)
	}
	return s.mutate(ctx, id, func(sel *festival.Selection) { sel.Toggle(eventID) })
}

// SetParticipants changes the group size of a selected Ensemble offering.
func (s *Service) SetParticipants(ctx context.Context, id, eventID string, count int) (*model.SessionView, error) {
	if _, ok := s.catalog.Lookup(eventID); !ok {
		return nil, fmt.Errorf("participants %q: %w", eventID, festival.ErrUnknownEvent)
	}
	return s.mutate(ctx, id, func(sel *festival.Selection) { sel.SetParticipants(eventID, count) })
}

// Validate runs the eligibility checks against the session's selection.
func (s *Service) Validate(ctx context.Context, id string, c festival.Candidate) (festival.Result, error) {
	sel, err := s.load(ctx, id)
	if err != nil {
		return festival.Result{}, err
	}
	return s.validator.Validate(c, sel), nil
}

// Submit validates the candidate, stores the registration, publishes
// registration.submitted and closes the session. A failed validation is
// returned as *ValidationError.
func (s *Service) Submit(ctx context.Context, id string, c festival.Candidate) (*model.SubmitResponse, error) {
	sel, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	res := s.validator.Validate(c, sel)
	if !res.Valid {
		return nil, &ValidationError{Result: res}
	}

	total, err := sel.Total()
	if err != nil {
		return nil, fmt.Errorf("price selection: %w", err)
	}

	reg := &model.Registration{
		Name:          strings.TrimSpace(c.Name),
		Document:      festival.Digits(c.Document),
		Email:         strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:         festival.Digits(c.Phone),
		BirthDate:     strings.TrimSpace(c.BirthDate),
		School:        strings.TrimSpace(c.School),
		Choreographer: strings.TrimSpace(c.Choreographer),
		Notes:         strings.TrimSpace(c.Notes),
		TotalCents:    total.Cents(),
		PaymentStatus: model.PaymentPending,
	}
	for _, eventID := range sel.Selected() {
		o, _ := s.catalog.Lookup(eventID)
		price, err := sel.EventPrice(eventID)
		if err != nil {
			return nil, fmt.Errorf("price %s: %w", eventID, err)
		}
		slots := sel.NameSlots(eventID)
		names := make([]string, 0, slots)
		for i, n := range c.Participants[eventID] {
			if i == slots {
				break
			}
			names = append(names, strings.TrimSpace(n))
		}
		reg.Items = append(reg.Items, model.RegistrationItem{
			EventID:      eventID,
			Title:        o.Title,
			Style:        o.Style.Name(),
			Modality:     o.Modality.Name(),
			Category:     o.Category.Name,
			Participants: slots,
			Names:        names,
			PriceCents:   price.Cents(),
		})
	}

	if err := s.registrations.Create(ctx, reg, festival.OfferingCapacity); err != nil {
		return nil, fmt.Errorf("store registration: %w", err)
	}

	log := s.log.WithContext(ctx).WithFields(logrus.Fields{
		"registration_id": reg.ID,
		"total_cents":     reg.TotalCents,
		"events":          len(reg.Items),
	})
	log.Info("registration submitted")

	ev := queue.RegistrationSubmittedEvent{
		RegistrationID: reg.ID,
		Name:           reg.Name,
		Email:          reg.Email,
		TotalCents:     reg.TotalCents,
		SubmittedAt:    reg.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range reg.Items {
		ev.EventIDs = append(ev.EventIDs, it.EventID)
		ev.Titles = append(ev.Titles, it.Title)
	}
	if err := s.publisher.Publish(ctx, queue.QueueRegistrationSubmitted, ev); err != nil {
		log.WithError(err).Warn("publish registration.submitted")
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		log.WithError(err).Warn("delete session after submit")
	}

	return &model.SubmitResponse{
		RegistrationID: reg.ID,
		TotalCents:     total.Cents(),
		Total:          total.String(),
		Warnings:       res.Warnings,
		Registration:   reg,
	}, nil
}

// ─── Registrations ────────────────────────────────────────────────────────────

// GetRegistration returns a stored registration.
func (s *Service) GetRegistration(ctx context.Context, id string) (*model.Registration, error) {
	return s.registrations.GetByID(ctx, id)
}

// ListRegistrations returns every registration, newest first.
func (s *Service) ListRegistrations(ctx context.Context) ([]model.Registration, error) {
	regs, err := s.registrations.List(ctx)
	if err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	return regs, nil
}

// UpdatePayment records a payment confirmation signal. An approved payment
// publishes registration.paid.
func (s *Service) UpdatePayment(ctx context.Context, id string, req model.PaymentUpdateRequest) (*model.Registration, error) {
	req.PaymentID = strings.TrimSpace(req.PaymentID)
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.check(req); err != nil {
		return nil, err
	}
	if err := s.registrations.UpdatePayment(ctx, id, req.PaymentID, req.Status); err != nil {
		return nil, err
	}
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log := s.log.WithContext(ctx).WithFields(logrus.Fields{"registration_id": id, "status": req.Status})
	log.Info("payment status updated")
	if req.Status == model.PaymentApproved {
		ev := queue.RegistrationPaidEvent{
			RegistrationID: reg.ID,
			PaymentID:      req.PaymentID,
			TotalCents:     reg.TotalCents,
			PaidAt:         s.now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.Publish(ctx, queue.QueueRegistrationPaid, ev); err != nil {
			log.WithError(err).Warn("publish registration.paid")
		}
	}
	return reg, nil
}

// Dashboard returns the admin figures.
func (s *Service) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	return s.registrations.Dashboard(ctx)
}

// ─── Contacts & donations ─────────────────────────────────────────────────────

// CreateContact validates and stores a contact message.
func (s *Service) CreateContact(ctx context.Context, req model.ContactRequest) (*model.Contact, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Message = strings.TrimSpace(req.Message)
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.contacts.Create(ctx, req)
}

// CreateDonation validates and stores a donation.
func (s *Service) CreateDonation(ctx context.Context, req model.DonationRequest) (*model.Donation, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.check(req); err != nil {
		return nil, err
	}
	d, err := s.donations.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).WithFields(logrus.Fields{"donation_id": d.ID, "amount_cents": d.AmountCents}).Info("donation received")
	return d, nil
}

// CheckLogin validates a login payload.
func (s *Service) CheckLogin(req model.LoginRequest) error {
	return s.check(req)
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func (s *Service) load(ctx context.Context, id string) (*festival.Selection, error) {
	snap, err := s.sessions.Load(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return festival.RestoreSelection(s.catalog, snap), nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*festival.Selection)) (*model.SessionView, error) {
	sel, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(sel)
	if err := s.sessions.Save(ctx, id, sel.Snapshot()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s.view(id, sel)
}

func (s *Service) view(id string, sel *festival.Selection) (*model.SessionView, error) {
	v := &model.SessionView{SessionID: id, Items: []model.SessionItem{}, Summary: sel.Summarize()}
	for _, eventID := range sel.Selected() {
		o, ok := s.catalog.Lookup(eventID)
		if !ok {
			return nil, fmt.Errorf("session %s: %q: %w", id, eventID, festival.ErrUnknownEvent)
		}
		price, err := sel.EventPrice(eventID)
		if err != nil {
			return nil, err
		}
		v.Items = append(v.Items, model.SessionItem{
			Offering:     o,
			Participants: sel.Participants(eventID),
			NameSlots:    sel.NameSlots(eventID),
			PriceCents:   price.Cents(),
			Price:        price.String(),
		})
	}
	total, err := sel.Total()
	if err != nil {
		return nil, err
	}
	v.TotalCents = total.Cents()
	v.Total = total.String()
	return v, nil
}

// check runs struct validation and flattens failures into a RequestError.
func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{Msg: err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &RequestError{Msg: strings.Join(msgs, "; ")}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " is not a valid email address"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "max", "lte":
		return field + " must be at most " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	default:
		return field + " is invalid"
	}
}
