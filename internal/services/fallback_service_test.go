package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSynthesizeAlwaysProducesThreePeriods(t *testing.T) {
	svc := NewFallbackService()
	validator := NewSchemaValidator()

	for n := 0; n <= 7; n++ {
		pool := NewCandidatePool()
		for i := 1; i <= n; i++ {
			pool.Add(namedActivity(fmt.Sprintf("Stop %d", i), "Sightseeing"))
		}

		it := svc.Synthesize(pool)
		if len(it.Items) != 3 {
			t.Fatalf("n=%d: expected 3 periods, got %d", n, len(it.Items))
		}
		for i, slot := range daySlots {
			want := fmt.Sprintf("Day 1 - %s", slot)
			if it.Items[i].Period != want {
				t.Fatalf("n=%d: expected period %q, got %q", n, want, it.Items[i].Period)
			}
			if len(it.Items[i].Activities) > fallbackPerPeriod {
				t.Fatalf("n=%d: period %q exceeds %d activities", n, want, fallbackPerPeriod)
			}
			if len(it.Items[i].Activities) == 0 && it.Items[i].Reason == "" {
				t.Fatalf("n=%d: empty period %q carries no reason", n, want)
			}
		}

		total := it.ActivityCount()
		wantTotal := n
		if wantTotal > fallbackActivityCap {
			wantTotal = fallbackActivityCap
		}
		if total != wantTotal {
			t.Fatalf("n=%d: expected %d activities, got %d", n, wantTotal, total)
		}

		raw, err := json.Marshal(it)
		if err != nil {
			t.Fatalf("n=%d: marshal: %v", n, err)
		}
		if _, err := validator.ValidateAndFix(raw); err != nil {
			t.Fatalf("n=%d: synthesized plan fails validation: %v", n, err)
		}
	}
}

func TestSynthesizeNilPool(t *testing.T) {
	it := NewFallbackService().Synthesize(nil)
	if len(it.Items) != 3 {
		t.Fatalf("expected 3 periods from nil pool, got %d", len(it.Items))
	}
	if it.ActivityCount() != 0 {
		t.Fatalf("expected no activities from nil pool, got %d", it.ActivityCount())
	}
	if it.Subtitle != fallbackEmptyPoolSubtitle {
		t.Fatalf("expected reduced-mode subtitle, got %q", it.Subtitle)
	}
}

func TestSynthesizeFillsBlankFields(t *testing.T) {
	pool := NewCandidatePool()
	pool.Add(RankedActivity{Title: "Mystery Stop"})

	it := NewFallbackService().Synthesize(pool)
	act := it.Items[0].Activities[0]
	if act.Image != defaultActivityImage {
		t.Fatalf("expected placeholder image, got %q", act.Image)
	}
	if act.Time != defaultActivityTime {
		t.Fatalf("expected flexible time, got %q", act.Time)
	}
	if act.Desc != defaultActivityDesc {
		t.Fatalf("expected default description, got %q", act.Desc)
	}
	if len(act.Tags) != 1 || act.Tags[0] != genericTag {
		t.Fatalf("expected generic tag, got %v", act.Tags)
	}
}

func TestSynthesizePadsShortDesc(t *testing.T) {
	pool := NewCandidatePool()
	pool.Add(RankedActivity{Title: "Hot Spring Dip", Description: "Hot."})

	act := NewFallbackService().Synthesize(pool).Items[0].Activities[0]
	if !strings.HasPrefix(act.Desc, "Hot.") || !strings.Contains(act.Desc, defaultActivityDesc) {
		t.Fatalf("expected short description padded, got %q", act.Desc)
	}
}

func TestSynthesizeCapsAndOrders(t *testing.T) {
	pool := NewCandidatePool()
	for i := 1; i <= 10; i++ {
		pool.Add(namedActivity(fmt.Sprintf("Stop %d", i), "Sightseeing"))
	}

	it := NewFallbackService().Synthesize(pool)
	if it.ActivityCount() != fallbackActivityCap {
		t.Fatalf("expected cap of %d, got %d", fallbackActivityCap, it.ActivityCount())
	}
	if it.Subtitle != fallbackSubtitle {
		t.Fatalf("expected standard subtitle, got %q", it.Subtitle)
	}
	// Pool order maps onto the day: first two picks open the morning.
	if got := it.Items[0].Activities[0].Title; got != "Stop 1" {
		t.Fatalf("expected Stop 1 first, got %q", got)
	}
	if got := it.Items[0].Activities[1].Title; got != "Stop 2" {
		t.Fatalf("expected Stop 2 second, got %q", got)
	}
	for _, p := range it.Items {
		if p.Reason != "" {
			t.Fatalf("expected no gap reasons on a full fallback day, got %q in %q", p.Reason, p.Period)
		}
	}
}
