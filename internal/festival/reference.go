// Package festival implements the registration rules of the dance festival:
// the generated catalog of offerings, per-session selection and pricing, and
// the eligibility checks run before a registration may be submitted.
//
// Everything here is pure in-memory computation. The catalog is immutable
// once built and may be shared across goroutines; a Selection belongs to a
// single session and is not safe for concurrent use.
package festival

import (
	"fmt"
	"strconv"
)

// Style is a dance style accepted by the festival.
type Style int

const (
	ClassicalBallet Style = iota
	Neoclassical
	Contemporary
	Jazz
	Urban
	Folk
	Traditional
	Free
)

// Styles lists every style in declaration order.
var Styles = []Style{ClassicalBallet, Neoclassical, Contemporary, Jazz, Urban, Folk, Traditional, Free}

type styleInfo struct {
	slug        string
	name        string
	description string
}

var styleTable = map[Style]styleInfo{
	ClassicalBallet: {"classical-ballet", "Classical Ballet", "Academic technique and excerpts from the classical repertoire."},
	Neoclassical:    {"neoclassical", "Neoclassical", "Classical vocabulary with contemporary structure and musicality."},
	Contemporary:    {"contemporary", "Contemporary", "Floor work, release and modern techniques."},
	Jazz:            {"jazz", "Jazz", "Jazz dance in its lyrical, musical theatre and street variants."},
	Urban:           {"urban", "Urban", "Hip hop, house, locking, popping and related street styles."},
	Folk:            {"folk", "Folk", "Popular Brazilian dances performed by groups."},
	Traditional:     {"traditional", "Traditional", "Ethnic and traditional dances from any culture."},
	Free:            {"free", "Free", "Any style or fusion not covered by the other categories."},
}

// Slug is the stable identifier used in offering ids and query filters.
func (s Style) Slug() string { return styleTable[s].slug }

// Name is the display name.
func (s Style) Name() string { return styleTable[s].name }

// Description is the free-text description shown to applicants.
func (s Style) Description() string { return styleTable[s].description }

func (s Style) String() string { return s.Name() }

// MarshalText encodes the style as its slug.
func (s Style) MarshalText() ([]byte, error) { return []byte(s.Slug()), nil }

// UnmarshalText decodes a style slug.
func (s *Style) UnmarshalText(b []byte) error {
	v, ok := ParseStyle(string(b))
	if !ok {
		return fmt.Errorf("unknown style %q", b)
	}
	*s = v
	return nil
}

// ParseStyle resolves a style from its slug.
func ParseStyle(slug string) (Style, bool) {
	for _, s := range Styles {
		if s.Slug() == slug {
			return s, true
		}
	}
	return 0, false
}

// Modality is the group-size format of a performance.
type Modality int

const (
	Solo Modality = iota
	FemaleVariation
	MaleVariation
	Duo
	Trio
	PasDeDeux
	GrandPasDeDeux
	Ensemble
)

// Modalities lists every modality in declaration order.
var Modalities = []Modality{Solo, FemaleVariation, MaleVariation, Duo, Trio, PasDeDeux, GrandPasDeDeux, Ensemble}

// Ensemble group size bounds. The minimum is set by the festival
// regulation; the maximum is the largest group the stage accepts.
const (
	MinEnsembleParticipants = 4
	MaxEnsembleParticipants = 20
)

type modalityInfo struct {
	slug      string
	name      string
	unitPrice Money
	timeLimit string
	dancers   int
}

var modalityTable = map[Modality]modalityInfo{
	Solo:            {"solo", "Solo", 8000, "up to 3 minutes", 1},
	FemaleVariation: {"female-variation", "Female Variation", 8000, "original repertoire length", 1},
	MaleVariation:   {"male-variation", "Male Variation", 8000, "original repertoire length", 1},
	Duo:             {"duo", "Duo", 12000, "up to 3 minutes", 2},
	Trio:            {"trio", "Trio", 15000, "up to 4 minutes", 3},
	PasDeDeux:       {"pas-de-deux", "Pas de Deux", 12000, "up to 4 minutes", 2},
	GrandPasDeDeux:  {"grand-pas-de-deux", "Grand Pas de Deux", 15000, "up to 12 minutes", 2},
	Ensemble:        {"ensemble", "Ensemble", 4500, "up to 6 minutes", 0},
}

// Slug is the stable identifier used in offering ids and query filters.
func (m Modality) Slug() string { return modalityTable[m].slug }

// Name is the display name.
func (m Modality) Name() string { return modalityTable[m].name }

// UnitPrice is the registration fee. For Ensemble it is charged per
// participant.
func (m Modality) UnitPrice() Money { return modalityTable[m].unitPrice }

// TimeLimit describes the maximum performance length.
func (m Modality) TimeLimit() string { return modalityTable[m].timeLimit }

// PerParticipant reports whether the unit price is charged per participant.
func (m Modality) PerParticipant() bool { return m == Ensemble }

// Dancers is the fixed number of performers for the modality. Ensemble has
// no fixed number and returns 0.
func (m Modality) Dancers() int { return modalityTable[m].dancers }

func (m Modality) String() string { return m.Name() }

// MarshalText encodes the modality as its slug.
func (m Modality) MarshalText() ([]byte, error) { return []byte(m.Slug()), nil }

// UnmarshalText decodes a modality slug.
func (m *Modality) UnmarshalText(b []byte) error {
	v, ok := ParseModality(string(b))
	if !ok {
		return fmt.Errorf("unknown modality %q", b)
	}
	*m = v
	return nil
}

// ParseModality resolves a modality from its slug.
func ParseModality(slug string) (Modality, bool) {
	for _, m := range Modalities {
		if m.Slug() == slug {
			return m, true
		}
	}
	return 0, false
}

// AgeCategory is an age band. MaxAge of zero means no upper bound.
type AgeCategory struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	MinAge int    `json:"min_age"`
	MaxAge int    `json:"max_age,omitempty"`
}

// Contains reports whether age falls inside the band, bounds inclusive.
func (c AgeCategory) Contains(age int) bool {
	if age < c.MinAge {
		return false
	}
	return c.MaxAge == 0 || age <= c.MaxAge
}

// Label renders the band for display, e.g. "Pré (9-11)" or "Avançado (20+)".
func (c AgeCategory) Label() string {
	if c.MaxAge == 0 {
		return c.Name + " (" + strconv.Itoa(c.MinAge) + "+)"
	}
	return c.Name + " (" + strconv.Itoa(c.MinAge) + "-" + strconv.Itoa(c.MaxAge) + ")"
}

var (
	CategoryPre      = AgeCategory{Slug: "pre", Name: "Pré", MinAge: 9, MaxAge: 11}
	CategoryJunior   = AgeCategory{Slug: "junior", Name: "Júnior", MinAge: 12, MaxAge: 14}
	CategorySenior   = AgeCategory{Slug: "senior", Name: "Senior", MinAge: 15, MaxAge: 19}
	CategoryAdvanced = AgeCategory{Slug: "avancado", Name: "Avançado", MinAge: 20}
)

// Categories lists the age bands from youngest to oldest. Bands are
// contiguous and do not overlap.
var Categories = []AgeCategory{CategoryPre, CategoryJunior, CategorySenior, CategoryAdvanced}

// CategoryForAge returns the band containing age, if any.
func CategoryForAge(age int) (AgeCategory, bool) {
	for _, c := range Categories {
		if c.Contains(age) {
			return c, true
		}
	}
	return AgeCategory{}, false
}

// ParseCategory resolves an age band from its slug.
func ParseCategory(slug string) (AgeCategory, bool) {
	for _, c := range Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return AgeCategory{}, false
}

// StyleModalities is the compatibility table between styles and the
// modalities each one accepts, in the order offerings are generated.
var StyleModalities = map[Style][]Modality{
	ClassicalBallet: {FemaleVariation, MaleVariation, PasDeDeux, GrandPasDeDeux, Ensemble},
	Neoclassical:    {Solo, Duo, Trio, PasDeDeux, Ensemble},
	Contemporary:    {Solo, Duo, Trio, Ensemble},
	Jazz:            {Solo, Duo, Trio, Ensemble},
	Urban:           {Solo, Duo, Trio, Ensemble},
	Folk:            {Ensemble},
	Traditional:     {Solo, Duo, Trio, Ensemble},
	Free:            {Solo, Duo, Trio, Ensemble},
}

// Permits reports whether style s accepts modality m.
func Permits(s Style, m Modality) bool {
	for _, pm := range StyleModalities[s] {
		if pm == m {
			return true
		}
	}
	return false
}
