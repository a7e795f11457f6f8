// Package system exercises the wall clock adapter.
package system

import (
	"testing"
	"time"
)

// TestClockNowUTC ensures the default clock returns UTC timestamps.
func TestClockNowUTC(t *testing.T) {
	t.Parallel()

	clk := New()
	before := time.Now().Add(-time.Second)
	got := clk.Now()
	after := time.Now().Add(time.Second)

	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if got.Before(before) || got.After(after) {
		t.Fatalf("expected %v to be between %v and %v", got, before, after)
	}
}

// TestClockNowIn checks the clock reports in the configured location.
func TestClockNowIn(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-3", -3*3600)
	if got := NewIn(loc).Now().Location(); got != loc {
		t.Fatalf("expected %v, got %v", loc, got)
	}
	if got := NewIn(nil).Now().Location(); got != time.UTC {
		t.Fatalf("expected UTC for nil location, got %v", got)
	}
	var zero Clock
	if got := zero.Now().Location(); got != time.UTC {
		t.Fatalf("expected UTC for zero clock, got %v", got)
	}
}

// TestClockNowMonotonic checks successive timestamps are non-decreasing.
func TestClockNowMonotonic(t *testing.T) {
	t.Parallel()

	clk := New()
	first := clk.Now()
	second := clk.Now()
	if second.Before(first) {
		t.Fatalf("expected second call %v to be >= first %v", second, first)
	}
}
