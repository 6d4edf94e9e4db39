package delos

import "testing"

func isLowerHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func TestNewTraceID(t *testing.T) {
	id := NewTraceID()
	if len(id) != 32 {
		t.Errorf("len = %d, want 32", len(id))
	}
	if !isLowerHex(id) {
		t.Errorf("trace id %q is not lowercase hex", id)
	}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewTraceID()
		if seen[id] {
			t.Fatalf("duplicate trace id %q", id)
		}
		seen[id] = true
	}
}

func TestNewSpanID(t *testing.T) {
	id := NewSpanID()
	if len(id) != 16 {
		t.Errorf("len = %d, want 16", len(id))
	}
	if !isLowerHex(id) {
		t.Errorf("span id %q is not lowercase hex", id)
	}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewSpanID()
		if seen[id] {
			t.Fatalf("duplicate span id %q", id)
		}
		seen[id] = true
	}
}
