package normalize

import (
	"testing"
	"time"
)

func TestDateFormats(t *testing.T) {
	fallback := time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)
	want := time.Date(2024, time.June, 18, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input string
	}{
		{name: "iso", input: "2024-06-18"},
		{name: "day first dash", input: "18-06-2024"},
		{name: "day first slash", input: "18/06/2024"},
		{name: "day first dot", input: "18.06.2024"},
		{name: "digit soup", input: "20240618"},
		{name: "textual short", input: "18 Jun 2024"},
		{name: "textual long", input: "18 June 2024"},
		{name: "month name first", input: "Jun 18, 2024"},
		{name: "slash iso", input: "2024/06/18"},
		{name: "two digit year", input: "18/06/24"},
		{name: "embedded in line", input: "Date: 18-06-2024 Time: 14:03"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, usedFallback := Date(tc.input, fallback)
			if usedFallback {
				t.Fatalf("fallback used for %q", tc.input)
			}
			if !got.Equal(want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestDateFallback(t *testing.T) {
	fallback := time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)
	wantFallback := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not available", input: "N/A"},
		{name: "today", input: "today"},
		{name: "now uppercase", input: "NOW"},
		{name: "gibberish", input: "see receipt"},
		{name: "impossible date", input: "30/02/2024"},
		{name: "month out of range", input: "18/13/2024"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, usedFallback := Date(tc.input, fallback)
			if !usedFallback {
				t.Fatalf("expected fallback for %q, got %v", tc.input, got)
			}
			if !got.Equal(wantFallback) {
				t.Errorf("got %v, want %v", got, wantFallback)
			}
		})
	}
}

func TestDateTwoDigitCentury(t *testing.T) {
	got, usedFallback := Date("05/01/99", time.Now())
	if usedFallback {
		t.Fatal("fallback used")
	}
	// Two-digit years always land in 2000+.
	if got.Year() != 2099 {
		t.Errorf("year = %d, want 2099", got.Year())
	}
}
