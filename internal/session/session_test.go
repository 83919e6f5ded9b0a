package session

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/festival"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(0)
	snap := festival.SelectionSnapshot{
		Events:       []string{"jazz:ensemble:senior"},
		Participants: map[string]int{"jazz:ensemble:senior": 6},
	}
	if err := m.Save(ctx, "s1", snap); err != nil {
		t.Fatal(err)
	}
	snap.Participants["jazz:ensemble:senior"] = 9

	got, err := m.Load(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	want := festival.SelectionSnapshot{
		Events:       []string{"jazz:ensemble:senior"},
		Participants: map[string]int{"jazz:ensemble:senior": 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if err := m.Delete(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete err = %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	m := NewMemoryStore(time.Minute)
	m.now = func() time.Time { return now }

	_ = m.Save(ctx, "s1", festival.SelectionSnapshot{})
	now = now.Add(59 * time.Second)
	if _, err := m.Load(ctx, "s1"); err != nil {
		t.Fatalf("session expired early: %v", err)
	}
	now = now.Add(time.Second)
	if _, err := m.Load(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session err = %v", err)
	}
}

func TestMemoryStore_UnknownSession(t *testing.T) {
	if _, err := NewMemoryStore(0).Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
