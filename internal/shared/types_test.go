package shared

import (
	"strings"
	"testing"
)

func TestStringSlice_RoundTrip(t *testing.T) {
	original := StringSlice{"beach", "sunset", "palm trees"}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var scanned StringSlice
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(scanned) != 3 || scanned[0] != "beach" || scanned[2] != "palm trees" {
		t.Errorf("unexpected result %v", scanned)
	}
}

func TestStringSlice_EmptyValue(t *testing.T) {
	value, err := StringSlice{}.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if value != "[]" {
		t.Errorf("expected empty JSON array, got %v", value)
	}
}

func TestStringSlice_ScanNil(t *testing.T) {
	s := StringSlice{"stale"}
	if err := s.Scan(nil); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil slice, got %v", s)
	}
}

func TestStringSlice_ScanString(t *testing.T) {
	var s StringSlice
	if err := s.Scan(`["dog","cat"]`); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(s) != 2 || s[1] != "cat" {
		t.Errorf("unexpected result %v", s)
	}
}

func TestStringSlice_ScanUnsupported(t *testing.T) {
	var s StringSlice
	if err := s.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}

func TestNewID(t *testing.T) {
	a := NewID("sess_")
	b := NewID("sess_")

	if !strings.HasPrefix(a, "sess_") {
		t.Errorf("missing prefix: %q", a)
	}
	if len(a) != len("sess_")+32 {
		t.Errorf("unexpected length %d for %q", len(a), a)
	}
	if a == b {
		t.Error("ids should be unique")
	}
}
