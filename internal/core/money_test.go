package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"4.50", 450, true},
		{"4,50", 450, true},
		{"0", 0, true}, // zero is a valid amount
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestCentsFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
	}{
		{4.50, 450},
		{0, 0},
		{12.34, 1234},
		{19.99, 1999},
	}
	for _, tc := range cases {
		got, err := CentsFromFloat(tc.in)
		if err != nil || got != tc.out {
			t.Fatalf("%v expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
		}
	}
	if _, err := CentsFromFloat(-0.01); err == nil {
		t.Fatal("negative amount should be rejected")
	}
}

func TestMoneyFloat(t *testing.T) {
	if got := (Money{Cents: 650}).Float(); got != 6.50 {
		t.Fatalf("expected 6.50, got %v", got)
	}
}
