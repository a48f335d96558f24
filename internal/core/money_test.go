package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseNonNegativeCents(t *testing.T) {
	if got, err := ParseNonNegativeCents("0"); err != nil || got != 0 {
		t.Fatalf("expected 0, got %d (err=%v)", got, err)
	}
	if _, err := ParseNonNegativeCents("-3"); err == nil {
		t.Fatal("expected error for negative")
	}
	if _, err := ParseNonNegativeCents("NaN"); err == nil {
		t.Fatal("expected error for NaN")
	}
}

func TestMoneyJSON(t *testing.T) {
	cases := []struct {
		m    Money
		json string
	}{
		{Money{Cents: 1234}, "12.34"},
		{Money{Cents: 5}, "0.05"},
		{Money{Cents: -250}, "-2.50"},
		{Money{Cents: 0}, "0.00"},
	}
	for _, tc := range cases {
		b, err := json.Marshal(tc.m)
		if err != nil || string(b) != tc.json {
			t.Fatalf("%d: got %s (err=%v)", tc.m.Cents, b, err)
		}
		var back Money
		if err := json.Unmarshal(b, &back); err != nil || back != tc.m {
			t.Fatalf("%s: decoded %+v (err=%v)", tc.json, back, err)
		}
	}
	var m Money
	if err := json.Unmarshal([]byte("25"), &m); err != nil || m.Cents != 2500 {
		t.Fatalf("integer form: %+v %v", m, err)
	}
	if err := json.Unmarshal([]byte(`"abc"`), &m); err == nil {
		t.Fatal("expected error for string")
	}
}

func TestMoneyTimesChecked(t *testing.T) {
	cases := []struct {
		m    Money
		n    int
		want int64
		err  error
	}{
		{Money{Cents: 250}, 4, 1000, nil},
		{Money{Cents: 0}, math.MaxInt, 0, nil},
		{Money{Cents: 250}, 0, 0, nil},
		{MaxPrice, 92_000_000, MaxPrice.Cents * 92_000_000, nil},
		{MaxPrice, 93_000_000, 0, ErrInvalidAmount},
		{Money{Cents: math.MaxInt64}, 2, 0, ErrInvalidAmount},
		{Money{Cents: -1}, math.MinInt, 0, ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := tc.m.TimesChecked(tc.n)
		if !errors.Is(err, tc.err) {
			t.Fatalf("%v x %d: expected error %v, got %v", tc.m, tc.n, tc.err, err)
		}
		if err == nil && got.Cents != tc.want {
			t.Errorf("%v x %d = %d, want %d", tc.m, tc.n, got.Cents, tc.want)
		}
	}
}
