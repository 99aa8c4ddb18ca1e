package shared

import "testing"

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}

	if a == b {
		t.Errorf("expected distinct IDs, got %s twice", a)
	}

	if len(a) != 36 {
		t.Errorf("expected canonical UUID length 36, got %d (%s)", len(a), a)
	}
}

func TestNewLogger(t *testing.T) {
	if NewLogger(nil) == nil {
		t.Error("expected a logger with a nil writer")
	}
}
