package services

import (
	"encoding/json"
	"strings"
	"testing"

	"voyago/internal/models/response_models"
)

func TestExtractDayCount(t *testing.T) {
	cases := map[string]int{
		"3 days in Hanoi":            3,
		"a 10-day trek":              10,
		"11 days across the country": 11,
		"Plan a weekend getaway":     2,
		"one week in Hue":            7,
		"three day food tour":        3,
		"a fortnight of beaches":     14,
		"just wander":                1,
	}
	for prompt, want := range cases {
		if got := ExtractDayCount(prompt); got != want {
			t.Errorf("ExtractDayCount(%q) = %d, want %d", prompt, got, want)
		}
	}
}

func TestClampDayCount(t *testing.T) {
	if got := clampDayCount(0); got != 1 {
		t.Errorf("clampDayCount(0) = %d, want 1", got)
	}
	if got := clampDayCount(99); got != maxTripDays {
		t.Errorf("clampDayCount(99) = %d, want %d", got, maxTripDays)
	}
	if got := clampDayCount(5); got != 5 {
		t.Errorf("clampDayCount(5) = %d, want 5", got)
	}
}

func TestExtractDestination(t *testing.T) {
	cases := map[string]string{
		"3 days in Da Nang eating everything": "Da Nang",
		"A trip to Ho Chi Minh City":          "Ho Chi Minh City",
		"wander around hanoi":                 "",
		"no place mentioned":                  "",
	}
	for prompt, want := range cases {
		if got := ExtractDestination(prompt); got != want {
			t.Errorf("ExtractDestination(%q) = %q, want %q", prompt, got, want)
		}
	}
}

func TestNormalizeBudget(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"  $500 ", "$500"},
		{float64(300), "300"},
		{float64(99.5), "99.50"},
		{42, "42"},
		{json.Number("120"), "120"},
	}
	for _, tc := range cases {
		if got := NormalizeBudget(tc.in); got != tc.want {
			t.Errorf("NormalizeBudget(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildItineraryPromptListsPool(t *testing.T) {
	pool := poolOf(namedActivity("Hoan Kiem Lake Walk", "Nature", "Walking"))

	prompt := BuildItineraryPrompt("two days in Hanoi", pool, 2)

	for _, want := range []string{
		"Create a detailed 2-day travel itinerary.",
		"Available activities (use these titles exactly):",
		"- Hoan Kiem Lake Walk | Flexible | Nature, Walking |",
		"User Request: two days in Hanoi",
		"CRITICAL REQUIREMENTS:",
		"Generate exactly 2 days",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildItineraryPromptEmptyPool(t *testing.T) {
	prompt := BuildItineraryPrompt("two days in Hanoi", NewCandidatePool(), 2)
	if strings.Contains(prompt, "Available activities") {
		t.Errorf("empty pool should not be advertised:\n%s", prompt)
	}
}

func TestStrictRetryPromptWrapsOriginal(t *testing.T) {
	out := strictRetryPrompt("plan my trip")

	if !strings.HasPrefix(out, "=== CRITICAL INSTRUCTIONS ===") {
		t.Errorf("missing leading instructions block:\n%s", out)
	}
	if !strings.Contains(out, "plan my trip") {
		t.Errorf("original prompt dropped:\n%s", out)
	}
	if !strings.Contains(out, "=== REMINDER ===") {
		t.Errorf("missing trailing reminder block:\n%s", out)
	}
}

func TestBuildBackfillPromptTargetsEmptyPeriods(t *testing.T) {
	pool := poolOf(
		namedActivity("Hoan Kiem Lake Walk", "Nature"),
		namedActivity("War Remnants Museum", "Culture"),
	)
	organized := NewOrganizerService().Organize(response_models.Itinerary{}, pool, 1)

	prompt := buildBackfillPrompt("a day in Hanoi", organized.EmptyPeriodLabels(), organized)

	for _, want := range []string{
		"- Day 1 - Morning",
		"- Day 1 - Afternoon",
		"- Day 1 - Evening",
		"- Hoan Kiem Lake Walk",
		"- War Remnants Museum",
		"Original request: a day in Hanoi",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("backfill prompt missing %q:\n%s", want, prompt)
		}
	}
}
