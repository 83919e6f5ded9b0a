// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/auth"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/festival"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/model"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/repository"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/service"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/session"
)

// Handler holds all HTTP handlers of the registration API.
type Handler struct {
	svc  *service.Service
	auth *auth.Authenticator
	log  *logrus.Logger
}

// New constructs a Handler.
func New(svc *service.Service, authn *auth.Authenticator, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, auth: authn, log: log}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps service and store errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	var rerr *service.RequestError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, model.ValidationResponse{
			Error:  "registration is not valid",
			Result: verr.Result,
		})
	case errors.As(err, &rerr):
		writeError(w, http.StatusBadRequest, rerr.Msg)
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, festival.ErrUnknownEvent):
		writeError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "registration not found")
	case errors.Is(err, repository.ErrEventFull):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.WithContext(r.Context()).WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ─── Catalog ──────────────────────────────────────────────────────────────────

// ListCatalog handles GET /catalog
// Supports style, modality, category, age and q query filters.
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := festival.CatalogFilter{
		Style:    q.Get("style"),
		Modality: q.Get("modality"),
		Category: q.Get("category"),
		Query:    q.Get("q"),
	}
	if a := q.Get("age"); a != "" {
		age, err := strconv.Atoi(a)
		if err != nil || age < 0 {
			writeError(w, http.StatusBadRequest, "age must be a non-negative integer")
			return
		}
		f.Age = age
	}
	writeJSON(w, http.StatusOK, h.svc.ListOfferings(f))
}

// GetOffering handles GET /catalog/{id}
func (h *Handler) GetOffering(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.GetOffering(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type styleRef struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Modalities  []string `json:"modalities"`
}

type modalityRef struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	UnitPrice      string `json:"unit_price"`
	PerParticipant bool   `json:"per_participant"`
	TimeLimit      string `json:"time_limit"`
}

type categoryRef struct {
	festival.AgeCategory
	Label string `json:"label"`
}

// Reference handles GET /reference
// Returns the styles, modalities and age categories behind the catalog.
func (h *Handler) Reference(w http.ResponseWriter, r *http.Request) {
	var out struct {
		Styles     []styleRef    `json:"styles"`
		Modalities []modalityRef `json:"modalities"`
		Categories []categoryRef `json:"categories"`
	}
	for _, s := range festival.Styles {
		ref := styleRef{Slug: s.Slug(), Name: s.Name(), Description: s.Description()}
		for _, m := range festival.StyleModalities[s] {
			ref.Modalities = append(ref.Modalities, m.Slug())
		}
		out.Styles = append(out.Styles, ref)
	}
	for _, m := range festival.Modalities {
		out.Modalities = append(out.Modalities, modalityRef{
			Slug:           m.Slug(),
			Name:           m.Name(),
			UnitPriceCents: m.UnitPrice().Cents(),
			UnitPrice:      m.UnitPrice().String(),
			PerParticipant: m.PerParticipant(),
			TimeLimit:      m.TimeLimit(),
		})
	}
	for _, c := range festival.Categories {
		out.Categories = append(out.Categories, categoryRef{AgeCategory: c, Label: c.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

// ─── Sessions ─────────────────────────────────────────────────────────────────

// CreateSession handles POST /sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.CreateSession(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// GetSession handles GET /sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Toggle handles POST /sessions/{id}/toggle
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req model.ToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.EventID == "" {
		writeError(w, http.StatusBadRequest, "event_id is required")
		return
	}
	v, err := h.svc.Toggle(r.Context(), chi.URLParam(r, "id"), req.EventID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// SetParticipants handles PUT /sessions/{id}/participants
func (h *Handler) SetParticipants(w http.ResponseWriter, r *http.Request) {
	var req model.ParticipantsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.EventID == "" {
		writeError(w, http.StatusBadRequest, "event_id is required")
		return
	}
	v, err := h.svc.SetParticipants(r.Context(), chi.URLParam(r, "id"), req.EventID, req.Count)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Validate handles POST /sessions/{id}/validate
// Always answers 200 with the validation result; the client decides.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var c festival.Candidate
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	res, err := h.svc.Validate(r.Context(), chi.URLParam(r, "id"), c)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Submit handles POST /sessions/{id}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var c festival.Candidate
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.svc.Submit(r.Context(), chi.URLParam(r, "id"), c)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ─── Registrations ────────────────────────────────────────────────────────────

// GetRegistration handles GET /registrations/{id}
func (h *Handler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	reg, err := h.svc.GetRegistration(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// UpdatePayment handles POST /registrations/{id}/payment
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	reg, err := h.svc.UpdatePayment(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// ─── Contacts & donations ─────────────────────────────────────────────────────

// CreateContact handles POST /contacts
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req model.ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	c, err := h.svc.CreateContact(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// CreateDonation handles POST /donations
func (h *Handler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var req model.DonationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	d, err := h.svc.CreateDonation(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// ─── Admin ────────────────────────────────────────────────────────────────────

// Login handles POST /admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.CheckLogin(req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	tok, exp, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResponse{Token: tok, ExpiresAt: exp})
}

// Dashboard handles GET /admin/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ListRegistrations handles GET /admin/registrations
func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.svc.ListRegistrations(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.log.WithContext(r.Context()).WithFields(logrus.Fields{
		"admin": AdminSubject(r.Context()),
		"count": len(regs),
	}).Info("registrations listed")
	writeJSON(w, http.StatusOK, regs)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
