package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/pgvector/pgvector-go"

	"voyago/internal/models/response_models"
	"voyago/pkg/utils"
)

// validItineraryJSON passes schema validation without any fixes, so tests can
// use it wherever a backend is expected to answer correctly.
const validItineraryJSON = `{"title":"Hanoi Highlights","subtitle":"Two easy days in the Old Quarter","items":[{"period":"Day 1 - Morning","activities":[{"image":"/img/lake.jpg","title":"Hoan Kiem Lake Walk","time":"morning","desc":"An easy loop around the lake with coffee stops.","tags":["Nature","Walking"]}]}]}`

func mustItinerary(t *testing.T, raw string) response_models.Itinerary {
	t.Helper()
	var it response_models.Itinerary
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("fixture unmarshal: %v", err)
	}
	return it
}

// scriptedBackend drives generation flows from a test-provided script. The
// script receives the 1-based global call number alongside the call inputs.
type scriptedBackend struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, call int, prompt string, opts utils.GenerationOptions) (string, error)
	embFn func(ctx context.Context, text string) (pgvector.Vector, error)
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) GenerateItinerary(ctx context.Context, prompt string, opts utils.GenerationOptions) (string, error) {
	b.mu.Lock()
	b.calls++
	call := b.calls
	b.mu.Unlock()
	return b.fn(ctx, call, prompt, opts)
}

func (b *scriptedBackend) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	if b.embFn != nil {
		return b.embFn(ctx, text)
	}
	return pgvector.NewVector([]float32{0.1, 0.2, 0.3}), nil
}

func (b *scriptedBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func poolOf(activities ...RankedActivity) *CandidatePool {
	pool := NewCandidatePool()
	for _, a := range activities {
		pool.Add(a)
	}
	return pool
}

func namedActivity(title string, tags ...string) RankedActivity {
	return RankedActivity{
		Title:       title,
		Description: "A well documented stop with plenty to see and do.",
		Image:       "/img/stop.jpg",
		Tags:        tags,
		Similarity:  0.5,
	}
}
