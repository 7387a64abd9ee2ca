package cache

import (
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*Store, *fakeClock) {
	s := New()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clock.now
	return s, clock
}

func TestSetThenGet(t *testing.T) {
	s, _ := newTestStore()

	s.Set("beds:icu", 42, 15*time.Second)

	v, ok := s.Get("beds:icu")
	if !ok {
		t.Fatal("Expected fresh hit immediately after Set")
	}
	if v.(int) != 42 {
		t.Errorf("Expected 42, got %v", v)
	}
}

func TestGetMissingKey(t *testing.T) {
	s, _ := newTestStore()

	if _, ok := s.Get("beds:icu"); ok {
		t.Error("Get on a never-stored key should miss")
	}
	if _, ok := s.GetStale("beds:icu"); ok {
		t.Error("GetStale on a never-stored key should miss")
	}
}

func TestExpiryKeepsStaleValue(t *testing.T) {
	s, clock := newTestStore()

	s.Set("beds:icu", 42, 15*time.Second)
	clock.advance(15 * time.Second)

	if _, ok := s.Get("beds:icu"); ok {
		t.Error("Get should miss once the TTL has elapsed")
	}

	v, ok := s.GetStale("beds:icu")
	if !ok {
		t.Fatal("GetStale should still return the expired value")
	}
	if v.(int) != 42 {
		t.Errorf("Expected stale value 42, got %v", v)
	}
}

func TestOverwriteResetsStalenessClock(t *testing.T) {
	s, clock := newTestStore()

	s.Set("beds:icu", 1, 15*time.Second)
	clock.advance(20 * time.Second)

	s.Set("beds:icu", 2, 15*time.Second)

	v, ok := s.Get("beds:icu")
	if !ok {
		t.Fatal("Overwrite should make the entry fresh again")
	}
	if v.(int) != 2 {
		t.Errorf("Expected overwritten value 2, got %v", v)
	}

	if stale, _ := s.GetStale("beds:icu"); stale.(int) != 2 {
		t.Errorf("Overwrite should replace the stale value too, got %v", stale)
	}
}

func TestFreshJustBeforeExpiry(t *testing.T) {
	s, clock := newTestStore()

	s.Set("slots:sharma:2024-05-01", "v", 30*time.Second)
	clock.advance(30*time.Second - time.Millisecond)

	if _, ok := s.Get("slots:sharma:2024-05-01"); !ok {
		t.Error("Entry should still be fresh just before its deadline")
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{BedsKey("ICU"), "beds:icu"},
		{ClaimKey("7421"), "claims:7421"},
		{SlotsKey("Sharma", "2024-05-01"), "slots:sharma:2024-05-01"},
		{RecordsKey("P123"), "records:p123"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("Expected key %q, got %q", tt.want, tt.got)
		}
	}
}
