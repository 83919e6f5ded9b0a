package festival

import (
	"reflect"
	"testing"
)

func TestGenerateCatalog_Completeness(t *testing.T) {
	want := 0
	for _, s := range Styles {
		want += len(StyleModalities[s]) * len(Categories)
	}
	got := GenerateCatalog()
	if len(got) != want {
		t.Fatalf("catalog size = %d, want %d", len(got), want)
	}
	if want != 124 {
		t.Fatalf("expected 124 offerings from the reference tables, got %d", want)
	}

	seen := map[string]bool{}
	for _, o := range got {
		if !Permits(o.Style, o.Modality) {
			t.Errorf("%s: modality %s not permitted for style %s", o.ID, o.Modality, o.Style)
		}
		if seen[o.ID] {
			t.Errorf("duplicate id %s", o.ID)
		}
		seen[o.ID] = true
		if o.Capacity != OfferingCapacity {
			t.Errorf("%s: capacity = %d", o.ID, o.Capacity)
		}
		if o.UnitPrice != o.Modality.UnitPrice() {
			t.Errorf("%s: unit price = %d, want %d", o.ID, o.UnitPrice, o.Modality.UnitPrice())
		}
		if o.MinAge != o.Category.MinAge || o.MaxAge != o.Category.MaxAge {
			t.Errorf("%s: ages %d-%d do not match category", o.ID, o.MinAge, o.MaxAge)
		}
	}
}

func TestGenerateCatalog_Deterministic(t *testing.T) {
	a, b := GenerateCatalog(), GenerateCatalog()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two calls produced different catalogs")
	}
}

func TestGenerateCatalog_Order(t *testing.T) {
	got := GenerateCatalog()
	first := got[0]
	if first.ID != "classical-ballet:female-variation:pre" {
		t.Fatalf("first id = %s", first.ID)
	}
	if first.Title != "Classical Ballet - Female Variation (Pré)" {
		t.Fatalf("first title = %q", first.Title)
	}
	last := got[len(got)-1]
	if last.ID != "free:ensemble:avancado" {
		t.Fatalf("last id = %s", last.ID)
	}
	for i := 0; i < 4; i++ {
		if got[i].Category.Slug != Categories[i].Slug {
			t.Fatalf("offering %d category = %s, want %s", i, got[i].Category.Slug, Categories[i].Slug)
		}
	}
}

func TestGenerateCatalog_PointeShoesNote(t *testing.T) {
	for _, o := range GenerateCatalog() {
		want := o.Style == ClassicalBallet && o.Category.Slug != CategoryPre.Slug
		has := len(o.Notes) == 1 && o.Notes[0] == PointeShoesNote
		if want != has {
			t.Errorf("%s: notes = %v, want pointe note = %v", o.ID, o.Notes, want)
		}
		if !want && len(o.Notes) != 0 {
			t.Errorf("%s: unexpected notes %v", o.ID, o.Notes)
		}
	}
}

func TestCatalog_LookupReturnsCopy(t *testing.T) {
	c := NewCatalog()
	o, ok := c.Lookup("classical-ballet:ensemble:senior")
	if !ok {
		t.Fatal("lookup failed")
	}
	o.Notes[0] = "mutated"
	again, _ := c.Lookup("classical-ballet:ensemble:senior")
	if again.Notes[0] != PointeShoesNote {
		t.Fatal("catalog was mutated through a lookup result")
	}
	if _, ok := c.Lookup("nope"); ok {
		t.Fatal("unknown id found")
	}
}

func TestCatalog_Filter(t *testing.T) {
	c := NewCatalog()
	tt := []struct {
		name   string
		filter CatalogFilter
		want   int
	}{
		{name: "all", filter: CatalogFilter{}, want: 124},
		{name: "folk", filter: CatalogFilter{Style: "folk"}, want: 4},
		{name: "ensembles", filter: CatalogFilter{Modality: "ensemble"}, want: 32},
		{name: "junior jazz", filter: CatalogFilter{Style: "jazz", Category: "junior"}, want: 4},
		{name: "age 10", filter: CatalogFilter{Age: 10}, want: 31},
		{name: "age 8", filter: CatalogFilter{Age: 8}, want: 0},
		{name: "query", filter: CatalogFilter{Query: "grand pas"}, want: 4},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(c.Filter(tc.filter)); got != tc.want {
				t.Fatalf("got %d offerings, want %d", got, tc.want)
			}
		})
	}
}

func TestCategoryForAge(t *testing.T) {
	tt := []struct {
		age  int
		want string
		ok   bool
	}{
		{8, "", false},
		{9, "pre", true},
		{11, "pre", true},
		{12, "junior", true},
		{14, "junior", true},
		{15, "senior", true},
		{19, "senior", true},
		{20, "avancado", true},
		{70, "avancado", true},
	}
	for _, tc := range tt {
		c, ok := CategoryForAge(tc.age)
		if ok != tc.ok || c.Slug != tc.want {
			t.Errorf("CategoryForAge(%d) = %q, %v; want %q, %v", tc.age, c.Slug, ok, tc.want, tc.ok)
		}
	}
}

func TestMoney_Format(t *testing.T) {
	tt := []struct {
		m       Money
		str     string
		decimal string
	}{
		{8000, "R$ 80,00", "80.00"},
		{22500, "R$ 225,00", "225.00"},
		{122550, "R$ 1.225,50", "1225.50"},
		{5, "R$ 0,05", "0.05"},
	}
	for _, tc := range tt {
		if got := tc.m.String(); got != tc.str {
			t.Errorf("String(%d) = %q, want %q", tc.m, got, tc.str)
		}
		if got := tc.m.Decimal(); got != tc.decimal {
			t.Errorf("Decimal(%d) = %q, want %q", tc.m, got, tc.decimal)
		}
	}
}
