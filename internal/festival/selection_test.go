package festival

import (
	"errors"
	"reflect"
	"testing"
)

const (
	jazzSolo      = "jazz:solo:senior"
	jazzEnsemble  = "jazz:ensemble:senior"
	jazzDuo       = "jazz:duo:junior"
	folkEnsemble  = "folk:ensemble:avancado"
	balletVariant = "classical-ballet:female-variation:junior"
)

func TestSelection_SoloTotal(t *testing.T) {
	s := NewSelection(NewCatalog())
	s.Toggle(jazzSolo)
	total, err := s.Total()
	if err != nil {
		t.Fatal(err)
	}
	if total != 8000 || total.Decimal() != "80.00" {
		t.Fatalf("total = %s, want 80.00", total.Decimal())
	}
}

func TestSelection_EnsemblePricing(t *testing.T) {
	tt := []struct {
		name  string
		set   int
		count int
		price Money
	}{
		{name: "five", set: 5, count: 5, price: 22500},
		{name: "clamped low", set: 2, count: 4, price: 18000},
		{name: "negative", set: -3, count: 4, price: 18000},
		{name: "clamped high", set: 50, count: 20, price: 90000},
		{name: "upper bound", set: 20, count: 20, price: 90000},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSelection(NewCatalog())
			s.Toggle(jazzEnsemble)
			s.SetParticipants(jazzEnsemble, tc.set)
			if got := s.Participants(jazzEnsemble); got != tc.count {
				t.Fatalf("participants = %d, want %d", got, tc.count)
			}
			p, err := s.EventPrice(jazzEnsemble)
			if err != nil {
				t.Fatal(err)
			}
			if p != tc.price {
				t.Fatalf("price = %s, want %s", p.Decimal(), tc.price.Decimal())
			}
		})
	}
}

func TestSelection_ClampInvariant(t *testing.T) {
	s := NewSelection(NewCatalog())
	s.Toggle(jazzEnsemble)
	for n := -30; n <= 40; n++ {
		s.SetParticipants(jazzEnsemble, n)
		got := s.Participants(jazzEnsemble)
		if got < MinEnsembleParticipants || got > MaxEnsembleParticipants {
			t.Fatalf("SetParticipants(%d) stored %d", n, got)
		}
	}
}

func TestSelection_DefaultParticipants(t *testing.T) {
	s := NewSelection(NewCatalog())
	s.Toggle(jazzEnsemble)
	s.Toggle(jazzSolo)
	s.Toggle("not-in-catalog")
	if got := s.Participants(jazzEnsemble); got != MinEnsembleParticipants {
		t.Errorf("ensemble default = %d", got)
	}
	if got := s.Participants(jazzSolo); got != 1 {
		t.Errorf("solo default = %d", got)
	}
	if got := s.Participants("not-in-catalog"); got != 1 {
		t.Errorf("unknown default = %d", got)
	}
}

func TestSelection_EventPriceUsesStoredCount(t *testing.T) {
	s := NewSelection(NewCatalog())
	s.Toggle(jazzEnsemble)
	s.participants[jazzEnsemble] = 2
	p, err := s.EventPrice(jazzEnsemble)
	if err != nil {
		t.Fatal(err)
	}
	if p != Ensemble.UnitPrice()*2 {
		t.Fatalf("price = %s, want %s", p.Decimal(), (Ensemble.UnitPrice() * 2).Decimal())
	}
}

func TestSelection_NonEnsembleIgnoresCount(t *testing.T) {
	s := NewSelection(NewCatalog())
	s.Toggle(jazzDuo)
	s.SetParticipants(jazzDuo, 9)
	if got := s.Participants(jazzDuo); got != 1 {
		t.Fatalf("duo participants changed to %d", got)
	}
	p, _ := s.EventPrice(jazzDuo)
	if p != Duo.UnitPrice() {
		t.Fatalf("duo price = %s", p.Decimal())
	}
}

func TestSelection_SetParticipantsUnselected(t *testing.T) {
	s := NewSelection(NewCatalog())
	s.SetParticipants(jazzEnsemble, 10)
	if s.IsSelected(jazzEnsemble) || s.Participants(jazzEnsemble) != 0 {
		t.Fatal("unselected event was mutated")
	}
}

func TestSelection_ToggleIdempotence(t *testing.T) {
	for _, id := range []string{jazzSolo, jazzEnsemble, "unknown"} {
		t.Run(id, func(t *testing.T) {
			s := NewSelection(NewCatalog())
			s.Toggle(folkEnsemble)
			s.SetParticipants(folkEnsemble, 7)
			before := s.Snapshot()

			s.Toggle(id)
			s.Toggle(id)

			if after := s.Snapshot(); !reflect.DeepEqual(before, after) {
				t.Fatalf("state changed: before %+v, after %+v", before, after)
			}
			if s.IsSelected(id) {
				t.Fatal("event still selected")
			}
		})
	}
}

func TestSelection_TotalAdditive(t *testing.T) {
	s := NewSelection(NewCatalog())
	for _, id := range []string{jazzSolo, jazzEnsemble, jazzDuo, folkEnsemble, balletVariant} {
		s.Toggle(id)
	}
	s.SetParticipants(jazzEnsemble, 6)
	s.SetParticipants(folkEnsemble, 13)

	var sum Money
	for _, id := range s.Selected() {
		p, err := s.EventPrice(id)
		if err != nil {
			t.Fatal(err)
		}
		sum += p
	}
	total, err := s.Total()
	if err != nil {
		t.Fatal(err)
	}
	if total != sum {
		t.Fatalf("total %d != sum %d", total, sum)
	}
	want := Money(8000 + 6*4500 + 12000 + 13*4500 + 8000)
	if total != want {
		t.Fatalf("total = %s, want %s", total.Decimal(), want.Decimal())
	}
}

func TestSelection_UnknownEventPrice(t *testing.T) {
	s := NewSelection(NewCatalog())
	s.Toggle("ghost")
	if _, err := s.EventPrice("ghost"); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("EventPrice err = %v", err)
	}
	if _, err := s.Total(); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("Total err = %v", err)
	}
}

func TestSelection_Summarize(t *testing.T) {
	s := NewSelection(NewCatalog())
	s.Toggle(jazzSolo)
	s.Toggle(jazzEnsemble)
	s.Toggle(folkEnsemble)
	s.Toggle("ghost")

	got := s.Summarize()
	want := Summary{
		Count:      4,
		Styles:     []string{"Jazz", "Folk"},
		Modalities: []string{"Solo", "Ensemble"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}

func TestSelection_NameSlots(t *testing.T) {
	s := NewSelection(NewCatalog())
	s.Toggle(jazzSolo)
	s.Toggle(jazzDuo)
	s.Toggle(jazzEnsemble)
	s.SetParticipants(jazzEnsemble, 6)
	s.Toggle("neoclassical:trio:pre")

	tt := map[string]int{jazzSolo: 1, jazzDuo: 2, jazzEnsemble: 6, "neoclassical:trio:pre": 3, "ghost": 0}
	for id, want := range tt {
		if got := s.NameSlots(id); got != want {
			t.Errorf("NameSlots(%s) = %d, want %d", id, got, want)
		}
	}
}

func TestRestoreSelection(t *testing.T) {
	cat := NewCatalog()
	snap := SelectionSnapshot{
		Events:       []string{jazzEnsemble, jazzSolo, jazzEnsemble, folkEnsemble},
		Participants: map[string]int{jazzEnsemble: 2, jazzSolo: 5, "stray": 3},
	}
	s := RestoreSelection(cat, snap)

	if got := s.Selected(); !reflect.DeepEqual(got, []string{jazzEnsemble, jazzSolo, folkEnsemble}) {
		t.Fatalf("selected = %v", got)
	}
	if s.Participants(jazzEnsemble) != 4 {
		t.Errorf("ensemble count not clamped: %d", s.Participants(jazzEnsemble))
	}
	if s.Participants(jazzSolo) != 1 {
		t.Errorf("solo count = %d", s.Participants(jazzSolo))
	}
	if s.Participants(folkEnsemble) != 4 {
		t.Errorf("missing count not defaulted: %d", s.Participants(folkEnsemble))
	}
	if _, ok := s.Snapshot().Participants["stray"]; ok {
		t.Error("participant entry without selection survived restore")
	}
}
