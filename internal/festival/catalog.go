package festival

import (
	"fmt"
	"strings"
)

// OfferingCapacity is the number of registrations accepted per offering.
const OfferingCapacity = 7

// PointeShoesNote is attached to classical ballet offerings above Pré.
const PointeShoesNote = "pointe shoes required for classical repertoire works"

// Venue and date shared by every offering.
const (
	FestivalVenue = "Teatro Municipal"
	FestivalCity  = "São Paulo - SP"
	FestivalDate  = "2026-11-21"
)

// Offering is one orderable (style, modality, category) combination.
type Offering struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Style     Style       `json:"style"`
	Modality  Modality    `json:"modality"`
	Category  AgeCategory `json:"category"`
	MinAge    int         `json:"min_age"`
	MaxAge    int         `json:"max_age,omitempty"`
	UnitPrice Money       `json:"unit_price_cents"`
	TimeLimit string      `json:"time_limit"`
	Venue     string      `json:"venue"`
	City      string      `json:"city"`
	Date      string      `json:"date"`
	Available bool        `json:"available"`
	Capacity  int         `json:"capacity"`
	Notes     []string    `json:"notes,omitempty"`
}

// OfferingID builds the composite key of an offering.
func OfferingID(s Style, m Modality, c AgeCategory) string {
	return s.Slug() + ":" + m.Slug() + ":" + c.Slug
}

// GenerateCatalog expands every permitted (style, modality, category)
// triple into an offering. Styles, their modalities and the categories are
// walked in declaration order, so the output is deterministic.
func GenerateCatalog() []Offering {
	var out []Offering
	for _, s := range Styles {
		for _, m := range StyleModalities[s] {
			for _, c := range Categories {
				o := Offering{
					ID:        OfferingID(s, m, c),
					Title:     fmt.Sprintf("%s - %s (%s)", s.Name(), m.Name(), c.Name),
					Style:     s,
					Modality:  m,
					Category:  c,
					MinAge:    c.MinAge,
					MaxAge:    c.MaxAge,
					UnitPrice: m.UnitPrice(),
					TimeLimit: m.TimeLimit(),
					Venue:     FestivalVenue,
					City:      FestivalCity,
					Date:      FestivalDate,
					Available: true,
					Capacity:  OfferingCapacity,
				}
				if s == ClassicalBallet && c.Slug != CategoryPre.Slug {
					o.Notes = []string{PointeShoesNote}
				}
				out = append(out, o)
			}
		}
	}
	return out
}

// Catalog is the read-only set of offerings with an id index. A Catalog is
// safe for concurrent use.
type Catalog struct {
	offerings []Offering
	byID      map[string]int
}

// NewCatalog builds the catalog from GenerateCatalog.
func NewCatalog() *Catalog {
	return newCatalog(GenerateCatalog())
}

func newCatalog(offerings []Offering) *Catalog {
	c := &Catalog{offerings: offerings, byID: make(map[string]int, len(offerings))}
	for i, o := range offerings {
		c.byID[o.ID] = i
	}
	return c
}

// Len returns the number of offerings.
func (c *Catalog) Len() int { return len(c.offerings) }

// Lookup returns the offering with the given id.
func (c *Catalog) Lookup(id string) (Offering, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Offering{}, false
	}
	return c.offerings[i].clone(), true
}

// Offerings returns a copy of every offering in catalog order.
func (c *Catalog) Offerings() []Offering {
	out := make([]Offering, len(c.offerings))
	for i, o := range c.offerings {
		out[i] = o.clone()
	}
	return out
}

// CatalogFilter narrows a catalog listing. Zero fields match everything.
// Age, when positive, keeps offerings whose band contains it.
type CatalogFilter struct {
	Style    string
	Modality string
	Category string
	Age      int
	Query    string
}

// Filter returns the offerings matching f, in catalog order.
func (c *Catalog) Filter(f CatalogFilter) []Offering {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []Offering
	for _, o := range c.offerings {
		if f.Style != "" && o.Style.Slug() != f.Style {
			continue
		}
		if f.Modality != "" && o.Modality.Slug() != f.Modality {
			continue
		}
		if f.Category != "" && o.Category.Slug != f.Category {
			continue
		}
		if f.Age > 0 && !o.Category.Contains(f.Age) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(o.Title), q) {
			continue
		}
		out = append(out, o.clone())
	}
	return out
}

func (o Offering) clone() Offering {
	if o.Notes != nil {
		o.Notes = append([]string(nil), o.Notes...)
	}
	return o
}
