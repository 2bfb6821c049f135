package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/ledgerly/ledgerly-api/internal/domain"
)

func TestParseMoney_RoundsHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"19.999", "20.00"},
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"0", "0.00"},
		{"123.4", "123.40"},
	}
	for _, tc := range cases {
		m, err := domain.ParseMoney(tc.in)
		if err != nil {
			t.Fatalf("ParseMoney(%q): %v", tc.in, err)
		}
		if m.String() != tc.want {
			t.Errorf("ParseMoney(%q) = %s, want %s", tc.in, m.String(), tc.want)
		}
	}
}

func TestParseMoney_RejectsNegative(t *testing.T) {
	if _, err := domain.ParseMoney("-0.01"); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestParseMoney_RejectsGarbage(t *testing.T) {
	if _, err := domain.ParseMoney("12a.50"); err == nil {
		t.Error("expected error for unparseable amount")
	}
}

func TestMoney_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Amount domain.Money `json:"amount"`
	}

	// JSON number
	if err := json.Unmarshal([]byte(`{"amount": 42.5}`), &payload); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if payload.Amount.String() != "42.50" {
		t.Errorf("expected 42.50, got %s", payload.Amount.String())
	}

	// Numeric string
	if err := json.Unmarshal([]byte(`{"amount": "19.999"}`), &payload); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if payload.Amount.String() != "20.00" {
		t.Errorf("expected 20.00, got %s", payload.Amount.String())
	}

	// Negative rejected
	if err := json.Unmarshal([]byte(`{"amount": -1}`), &payload); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestMoney_MarshalJSON(t *testing.T) {
	m, _ := domain.ParseMoney("7.5")
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "7.50" {
		t.Errorf("expected 7.50, got %s", b)
	}
}

func TestMoney_SubCanGoNegative(t *testing.T) {
	a, _ := domain.ParseMoney("10")
	b, _ := domain.ParseMoney("25")
	diff := a.Sub(b)
	if diff.String() != "-15.00" {
		t.Errorf("expected -15.00, got %s", diff.String())
	}
}
