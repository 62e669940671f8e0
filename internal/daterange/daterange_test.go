package daterange

import (
	"testing"
	"time"
)

func TestLastDays(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 30, 0, 0, time.UTC)
	r, err := LastDays(now, 30)
	if err != nil {
		t.Fatalf("last days: %v", err)
	}
	if r.StartDate != "2024-03-01T12:30:00.000Z" || r.EndDate != "2024-03-31T12:30:00.000Z" {
		t.Fatalf("unexpected range %+v", r)
	}
	if _, err := LastDays(now, 0); err == nil {
		t.Fatalf("expected error for zero days")
	}
}

func TestCustomEndIsInclusive(t *testing.T) {
	r, err := Custom("2024-01-01", "2024-01-31", time.UTC)
	if err != nil {
		t.Fatalf("custom: %v", err)
	}
	if r.StartDate != "2024-01-01T00:00:00.000Z" || r.EndDate != "2024-01-31T23:59:59.000Z" {
		t.Fatalf("unexpected range %+v", r)
	}
}

func TestCustomRejectsInvertedRange(t *testing.T) {
	if _, err := Custom("2024-02-01", "2024-01-01", nil); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if _, err := Custom("01/02/2024", "2024-01-01", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPresets(t *testing.T) {
	if !IsPreset(90) || IsPreset(14) {
		t.Fatalf("unexpected preset membership")
	}
}
