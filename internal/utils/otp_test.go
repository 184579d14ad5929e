package utils

import (
	"strconv"
	"testing"
)

func TestNewOTPCode_Range(t *testing.T) {
	t.Parallel()

	for i := 0; i < 500; i++ {
		code, err := NewOTPCode()
		if err != nil {
			t.Fatalf("NewOTPCode error: %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("expected 4 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("non-numeric code %q", code)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("code %d out of [1000, 9999]", n)
		}
	}
}

func TestNewResetTicket(t *testing.T) {
	t.Parallel()

	t1, err := NewResetTicket()
	if err != nil {
		t.Fatalf("NewResetTicket error: %v", err)
	}
	t2, err := NewResetTicket()
	if err != nil {
		t.Fatalf("NewResetTicket error: %v", err)
	}
	if len(t1) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(t1))
	}
	if t1 == t2 {
		t.Fatal("tickets are not unique")
	}
}
