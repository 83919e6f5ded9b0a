package festival

import (
	"fmt"
	"strings"
	"time"
)

// BirthDateLayout is the accepted birth date format.
const BirthDateLayout = "2006-01-02"

// Candidate is the registration form filled in by the applicant.
// Participants maps each selected offering id to the names of its dancers.
type Candidate struct {
	Name          string              `json:"name"`
	Document      string              `json:"document"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	BirthDate     string              `json:"birth_date"`
	School        string              `json:"school,omitempty"`
	Choreographer string              `json:"choreographer,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Participants  map[string][]string `json:"participants"`
}

// Result is the outcome of a validation. Valid is true exactly when Errors
// is empty; Warnings never block a registration.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validation messages.
const (
	MsgNameRequired      = "name is required"
	MsgDocumentRequired  = "document is required"
	MsgEmailRequired     = "email is required"
	MsgPhoneRequired     = "phone is required"
	MsgBirthDateRequired = "birth date is required"
	MsgDocumentDigits    = "document must have 11 digits"
	MsgDocumentInvalid   = "document is not a valid CPF"
	MsgEmailInvalid      = "email is not a valid address"
	MsgPhoneInvalid      = "phone must have at least 10 digits"
	MsgBirthDateInvalid  = "birth date must use the YYYY-MM-DD format"
	MsgNoSelection       = "select at least one modality"
)

// Validator checks a candidate and its selection against the festival
// regulation. It holds no per-session state and is safe for concurrent use.
type Validator struct {
	catalog *Catalog
	now     func() time.Time
}

// NewValidator returns a Validator for catalog. The clock is used to derive
// the applicant's age; nil means time.Now.
func NewValidator(catalog *Catalog, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{catalog: catalog, now: now}
}

// Validate runs every check and collects all failures; it never stops at the
// first one.
func (v *Validator) Validate(c Candidate, sel *Selection) Result {
	var errs, warns []string
	add := func(msg string) { errs = append(errs, msg) }

	name := strings.TrimSpace(c.Name)
	doc := strings.TrimSpace(c.Document)
	email := strings.TrimSpace(c.Email)
	phone := strings.TrimSpace(c.Phone)
	birth := strings.TrimSpace(c.BirthDate)

	if name == "" {
		add(MsgNameRequired)
	}
	if doc == "" {
		add(MsgDocumentRequired)
	}
	if email == "" {
		add(MsgEmailRequired)
	}
	if phone == "" {
		add(MsgPhoneRequired)
	}
	if birth == "" {
		add(MsgBirthDateRequired)
	}

	if doc != "" {
		switch {
		case len(Digits(doc)) != 11:
			add(MsgDocumentDigits)
		case !ValidCPF(doc):
			add(MsgDocumentInvalid)
		}
	}
	if email != "" && !ValidEmail(email) {
		add(MsgEmailInvalid)
	}
	if phone != "" && len(Digits(phone)) < 10 {
		add(MsgPhoneInvalid)
	}

	age, ageKnown := -1, false
	if birth != "" {
		bd, err := time.Parse(BirthDateLayout, birth)
		if err != nil {
			add(MsgBirthDateInvalid)
		} else {
			age, ageKnown = AgeAt(bd, v.now()), true
		}
	}

	var selected []Offering
	if sel == nil || sel.Len() == 0 {
		add(MsgNoSelection)
	} else {
		for _, id := range sel.Selected() {
			o, ok := v.catalog.Lookup(id)
			if !ok {
				add(fmt.Sprintf("event %q does not exist", id))
				continue
			}
			selected = append(selected, o)
		}
	}

	blank := 0
	for _, o := range selected {
		names := c.Participants[o.ID]
		slots := nameSlots(o, sel.Participants(o.ID))
		for i := 0; i < slots; i++ {
			if i >= len(names) || strings.TrimSpace(names[i]) == "" {
				blank++
			}
		}
	}
	if blank > 0 {
		add(fmt.Sprintf("%d participant name(s) missing", blank))
	}

	if ageKnown && len(selected) > 0 {
		fits := false
		for _, o := range selected {
			if o.Category.Contains(age) {
				fits = true
				break
			}
		}
		if !fits {
			warns = append(warns, fmt.Sprintf("applicant age %d is outside every selected age category", age))
		}
	}

	for _, o := range selected {
		if o.Modality == Ensemble && sel.Participants(o.ID) < MinEnsembleParticipants {
			add(fmt.Sprintf("%s needs at least %d participants", o.Title, MinEnsembleParticipants))
		}
	}

	if errs == nil {
		errs = []string{}
	}
	if warns == nil {
		warns = []string{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}

// ValidEmail accepts addresses with exactly one "@", a non-empty local part
// and a domain containing a dot.
func ValidEmail(email string) bool {
	if strings.Count(email, "@") != 1 || strings.ContainsAny(email, " \t") {
		return false
	}
	local, domain, _ := strings.Cut(email, "@")
	if local == "" || domain == "" || !strings.Contains(domain, ".") {
		return false
	}
	return !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// AgeAt returns the age in whole years on the given date.
func AgeAt(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	return age
}
