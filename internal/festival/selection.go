package festival

import (
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned when an offering id is not in the catalog.
var ErrUnknownEvent = errors.New("unknown event")

// Selection is the in-progress set of offerings chosen in one session and
// the participant count of each. Every key of the participant map belongs to
// a selected offering.
//
// Toggle accepts ids without checking them against the catalog; pricing
// calls reject unknown ids with ErrUnknownEvent and the Validator reports
// them.
type Selection struct {
	catalog      *Catalog
	order        []string
	participants map[string]int
}

// NewSelection returns an empty selection bound to catalog.
func NewSelection(catalog *Catalog) *Selection {
	return &Selection{catalog: catalog, participants: map[string]int{}}
}

// Catalog returns the catalog the selection prices against.
func (s *Selection) Catalog() *Catalog { return s.catalog }

// Toggle removes id if selected, otherwise adds it with the default
// participant count: MinEnsembleParticipants for Ensemble, 1 for anything
// else (unknown ids included).
func (s *Selection) Toggle(id string) {
	if s.IsSelected(id) {
		s.remove(id)
		return
	}
	s.order = append(s.order, id)
	s.participants[id] = s.defaultParticipants(id)
}

// IsSelected reports whether id is currently selected.
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.participants[id]
	return ok
}

// SetParticipants sets the group size of a selected Ensemble offering,
// clamped to [MinEnsembleParticipants, MaxEnsembleParticipants]. It is a
// no-op for unselected ids and for any other modality.
func (s *Selection) SetParticipants(id string, n int) {
	if !s.IsSelected(id) {
		return
	}
	o, ok := s.catalog.Lookup(id)
	if !ok || o.Modality != Ensemble {
		return
	}
	s.participants[id] = clampParticipants(n)
}

// Participants returns the stored participant count of id, or 0 when id is
// not selected.
func (s *Selection) Participants(id string) int {
	return s.participants[id]
}

// Selected returns the selected ids in the order they were added.
func (s *Selection) Selected() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of selected offerings.
func (s *Selection) Len() int { return len(s.order) }

// EventPrice is the fee of one selected offering. Ensemble offerings are
// priced per participant; every other modality costs its unit price
// whatever participant count is stored.
func (s *Selection) EventPrice(id string) (Money, error) {
	o, ok := s.catalog.Lookup(id)
	if !ok {
		return 0, fmt.Errorf("price %q: %w", id, ErrUnknownEvent)
	}
	if o.Modality.PerParticipant() {
		return o.UnitPrice * Money(s.participants[id]), nil
	}
	return o.UnitPrice, nil
}

// Total sums EventPrice over every selected offering.
func (s *Selection) Total() (Money, error) {
	var total Money
	for _, id := range s.order {
		p, err := s.EventPrice(id)
		if err != nil {
			return 0, err
		}
		total += p
	}
	return total, nil
}

// Summary describes a selection for display.
type Summary struct {
	Count      int      `json:"count"`
	Styles     []string `json:"styles"`
	Modalities []string `json:"modalities"`
}

// Summarize counts the selected offerings and lists their distinct style and
// modality names in selection order. Unknown ids count but contribute no
// names.
func (s *Selection) Summarize() Summary {
	sum := Summary{Count: len(s.order), Styles: []string{}, Modalities: []string{}}
	seenStyle := map[Style]bool{}
	seenModality := map[Modality]bool{}
	for _, id := range s.order {
		o, ok := s.catalog.Lookup(id)
		if !ok {
			continue
		}
		if !seenStyle[o.Style] {
			seenStyle[o.Style] = true
			sum.Styles = append(sum.Styles, o.Style.Name())
		}
		if !seenModality[o.Modality] {
			seenModality[o.Modality] = true
			sum.Modalities = append(sum.Modalities, o.Modality.Name())
		}
	}
	return sum
}

// NameSlots returns how many participant names id requires: the stored
// count for Ensemble, the modality's fixed dancer count otherwise.
func (s *Selection) NameSlots(id string) int {
	o, ok := s.catalog.Lookup(id)
	if !ok {
		return 0
	}
	return nameSlots(o, s.participants[id])
}

func nameSlots(o Offering, participants int) int {
	if o.Modality.PerParticipant() {
		return participants
	}
	return o.Modality.Dancers()
}

// SelectionSnapshot is the serialisable form of a Selection.
type SelectionSnapshot struct {
	Events       []string       `json:"events"`
	Participants map[string]int `json:"participants"`
}

// Snapshot captures the selection state.
func (s *Selection) Snapshot() SelectionSnapshot {
	p := make(map[string]int, len(s.participants))
	for k, v := range s.participants {
		p[k] = v
	}
	return SelectionSnapshot{Events: s.Selected(), Participants: p}
}

// RestoreSelection rebuilds a Selection from a snapshot. Duplicate ids are
// dropped, missing counts get the default and Ensemble counts are clamped,
// so the result always satisfies the Selection invariants.
func RestoreSelection(catalog *Catalog, snap SelectionSnapshot) *Selection {
	s := NewSelection(catalog)
	for _, id := range snap.Events {
		if s.IsSelected(id) {
			continue
		}
		s.Toggle(id)
		if n, ok := snap.Participants[id]; ok {
			s.SetParticipants(id, n)
		}
	}
	return s
}

func (s *Selection) remove(id string) {
	delete(s.participants, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Selection) defaultParticipants(id string) int {
	if o, ok := s.catalog.Lookup(id); ok && o.Modality == Ensemble {
		return MinEnsembleParticipants
	}
	return 1
}

func clampParticipants(n int) int {
	if n < MinEnsembleParticipants {
		return MinEnsembleParticipants
	}
	if n > MaxEnsembleParticipants {
		return MaxEnsembleParticipants
	}
	return n
}
