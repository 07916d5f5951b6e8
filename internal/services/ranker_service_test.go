package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"

	"voyago/internal/models/db_models"
	"voyago/internal/models/response_models"
	"voyago/internal/repositories"
	"voyago/pkg/logger"
)

type fakeEmbeddingRepo struct {
	matches []repositories.ActivityMatch
	err     error
	calls   int
}

func (f *fakeEmbeddingRepo) SearchSimilar(ctx context.Context, vector pgvector.Vector, limit int) ([]repositories.ActivityMatch, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func (f *fakeEmbeddingRepo) UpsertEmbedding(ctx context.Context, embedding db_models.ActivityEmbedding) error {
	return nil
}

func (f *fakeEmbeddingRepo) CountEmbeddings(ctx context.Context) (int64, error) {
	return int64(len(f.matches)), nil
}

type fakeActivityRepo struct {
	activities []db_models.Activity
	err        error
	keywords   []string
}

func (f *fakeActivityRepo) CreateActivity(ctx context.Context, activity *db_models.Activity) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeActivityRepo) UpdateActivity(ctx context.Context, activity *db_models.Activity) error {
	return nil
}

func (f *fakeActivityRepo) GetActivityById(ctx context.Context, id string) (*db_models.Activity, error) {
	return nil, nil
}

func (f *fakeActivityRepo) FindByTitle(ctx context.Context, title string) (*db_models.Activity, error) {
	return nil, nil
}

func (f *fakeActivityRepo) SearchByKeyword(ctx context.Context, keyword string, limit int) ([]db_models.Activity, error) {
	f.keywords = append(f.keywords, keyword)
	if f.err != nil {
		return nil, f.err
	}
	return f.activities, nil
}

func (f *fakeActivityRepo) List(ctx context.Context, page, pageSize int) ([]db_models.Activity, error) {
	return f.activities, nil
}

func (f *fakeActivityRepo) CountActivities(ctx context.Context) (int64, error) {
	return int64(len(f.activities)), nil
}

func matchRow(title string, sim float64, tags ...string) repositories.ActivityMatch {
	return repositories.ActivityMatch{
		ActivityID:  title,
		Title:       title,
		Description: "A well documented stop with plenty to see and do.",
		Image:       "/img/stop.jpg",
		Tags:        pq.StringArray(tags),
		Similarity:  sim,
	}
}

func newRankerForTest(emb *fakeEmbeddingRepo, act *fakeActivityRepo) RankerServiceInterface {
	return NewRankerService(emb, act, &scriptedBackend{}, logger.NewNop())
}

// weekdayEvening is fixed so peak-window checks never depend on the clock.
var weekdayEvening = time.Date(2026, 3, 4, 18, 30, 0, 0, time.UTC)

func TestBuildPoolStrictPeakExclusion(t *testing.T) {
	t.Parallel()

	crowded := matchRow("Crowded Temple", 0.9)
	crowded.CrowdLevel = "high"
	windowed := matchRow("Riverside Market", 0.8)
	windowed.PeakHours = "17-23"
	quiet := matchRow("Quiet Gallery", 0.7)

	emb := &fakeEmbeddingRepo{matches: []repositories.ActivityMatch{crowded, windowed, quiet}}
	svc := newRankerForTest(emb, &fakeActivityRepo{})

	pool := svc.BuildPool(context.Background(), RankContext{
		Queries:    []string{"two days in Hanoi"},
		CrowdedNow: true,
		Now:        weekdayEvening,
	})
	require.Equal(t, []string{"Quiet Gallery"}, pool.Titles())

	// Without a live congestion signal nothing counts as peak.
	pool = svc.BuildPool(context.Background(), RankContext{
		Queries:    []string{"two days in Hanoi"},
		CrowdedNow: false,
		Now:        weekdayEvening,
	})
	require.Equal(t, 3, pool.Len())
}

func TestBuildPoolPenaltyModeKeepsButDemotes(t *testing.T) {
	t.Parallel()

	crowded := matchRow("Crowded Temple", 0.9)
	crowded.CrowdLevel = "high"
	quiet := matchRow("Quiet Gallery", 0.5)

	emb := &fakeEmbeddingRepo{matches: []repositories.ActivityMatch{crowded, quiet}}
	pool := newRankerForTest(emb, &fakeActivityRepo{}).BuildPool(context.Background(), RankContext{
		Queries:    []string{"two days in Hanoi"},
		CrowdedNow: true,
		Policy:     PeakPolicyPenalty,
		Now:        weekdayEvening,
	})

	require.Equal(t, 2, pool.Len())
	got, ok := pool.Lookup("Crowded Temple")
	require.True(t, ok)
	require.InDelta(t, 0.9-peakPenalty, got.Score, 1e-9)
	got, ok = pool.Lookup("Quiet Gallery")
	require.True(t, ok)
	require.InDelta(t, 0.5+offPeakBonus, got.Score, 1e-9)
	require.Equal(t, "Crowded Temple", pool.Items()[0].Title)
}

func TestBuildPoolAppliesBoostCaps(t *testing.T) {
	t.Parallel()

	m := matchRow("Rainy Day Combo", 0.8, "Indoor-Friendly", "Museum", "Gallery", "Cafe")
	emb := &fakeEmbeddingRepo{matches: []repositories.ActivityMatch{m}}
	pool := newRankerForTest(emb, &fakeActivityRepo{}).BuildPool(context.Background(), RankContext{
		Queries:         []string{"a rainy day in Hanoi"},
		Interests:       []string{"Indoor-Friendly", "Museum", "Gallery", "Cafe"},
		WeatherCategory: "rainy",
		Now:             weekdayEvening,
	})

	got, ok := pool.Lookup("Rainy Day Combo")
	require.True(t, ok)
	require.InDelta(t, 0.8+maxInterestBoost+maxWeatherBoost+offPeakBonus, got.Score, 1e-9)
}

func TestBuildPoolDegradesToKeywordSearch(t *testing.T) {
	t.Parallel()

	emb := &fakeEmbeddingRepo{err: errors.New("embedding provider down")}
	act := &fakeActivityRepo{activities: []db_models.Activity{{
		Title:       "Banh Mi Workshop",
		Description: "Learn to build the perfect banh mi from a street vendor.",
		TimeWindow:  "morning",
		Image:       "/img/banhmi.jpg",
		Tags:        []db_models.Tag{{Name: "Food & Culinary"}},
	}}}

	pool := NewRankerService(emb, act, &scriptedBackend{
		embFn: func(ctx context.Context, text string) (pgvector.Vector, error) {
			return pgvector.Vector{}, errors.New("embedding provider down")
		},
	}, logger.NewNop()).BuildPool(context.Background(), RankContext{
		Queries: []string{"street food tour in Hanoi"},
	})

	require.Equal(t, 1, pool.Len())
	got, ok := pool.Lookup("Banh Mi Workshop")
	require.True(t, ok)
	require.InDelta(t, keywordSimilarity, got.Similarity, 1e-9)
	require.Equal(t, []string{"street", "food", "tour", "hanoi"}, act.keywords)
}

func TestBuildPoolSupplementsEmptySimilarity(t *testing.T) {
	t.Parallel()

	emb := &fakeEmbeddingRepo{}
	act := &fakeActivityRepo{activities: []db_models.Activity{{
		Title:       "Old Quarter Walk",
		Description: "Wander the thirty-six streets and their trades.",
	}}}

	pool := newRankerForTest(emb, act).BuildPool(context.Background(), RankContext{
		Queries: []string{"wander the old quarter"},
	})

	require.Equal(t, 1, emb.calls)
	require.Equal(t, 1, pool.Len())
	_, ok := pool.Lookup("Old Quarter Walk")
	require.True(t, ok)
}

func TestBuildPoolTruncatesToTopScores(t *testing.T) {
	t.Parallel()

	var matches []repositories.ActivityMatch
	for i := 0; i < 50; i++ {
		matches = append(matches, matchRow(fmt.Sprintf("Stop %d", i), float64(i)/100))
	}
	emb := &fakeEmbeddingRepo{matches: matches}

	pool := newRankerForTest(emb, &fakeActivityRepo{}).BuildPool(context.Background(), RankContext{
		Queries: []string{"everything in town"},
		Now:     weekdayEvening,
	})

	require.Equal(t, maxPoolSize, pool.Len())
	require.Equal(t, "Stop 49", pool.Items()[0].Title)
	_, ok := pool.Lookup("Stop 9")
	require.False(t, ok)
	_, ok = pool.Lookup("Stop 10")
	require.True(t, ok)
}

func TestBuildPoolKeepsHighestSimilarityDuplicate(t *testing.T) {
	t.Parallel()

	emb := &fakeEmbeddingRepo{matches: []repositories.ActivityMatch{
		matchRow("Lake Walk", 0.4),
		matchRow("lake walk", 0.7),
	}}

	pool := newRankerForTest(emb, &fakeActivityRepo{}).BuildPool(context.Background(), RankContext{
		Queries: []string{"a walk by the lake"},
	})

	require.Equal(t, 1, pool.Len())
	got, ok := pool.Lookup("Lake Walk")
	require.True(t, ok)
	require.InDelta(t, 0.7, got.Similarity, 1e-9)
}

func TestBuildPoolRelaxesTagFilterButKeepsPeakExclusion(t *testing.T) {
	t.Parallel()

	outdoorA := matchRow("Outdoor A", 0.6, "Outdoor")
	outdoorB := matchRow("Outdoor B", 0.9, "Outdoor")
	outdoorB.CrowdLevel = "high"

	emb := &fakeEmbeddingRepo{matches: []repositories.ActivityMatch{outdoorA, outdoorB}}
	pool := newRankerForTest(emb, &fakeActivityRepo{}).BuildPool(context.Background(), RankContext{
		Queries:         []string{"something to do in the rain"},
		WeatherCategory: "rainy",
		CrowdedNow:      true,
		Now:             weekdayEvening,
	})

	require.Equal(t, []string{"Outdoor A"}, pool.Titles())
}

func TestBuildPoolThenOrganizeRespectsConstraints(t *testing.T) {
	t.Parallel()

	var matches []repositories.ActivityMatch
	for i := 1; i <= 20; i++ {
		matches = append(matches, matchRow(fmt.Sprintf("Indoor Stop %d", i), 0.5+float64(i)*0.01, "Indoor-Friendly"))
	}
	for i := 1; i <= 15; i++ {
		matches = append(matches, matchRow(fmt.Sprintf("Food Stop %d", i), 0.5+float64(i)*0.012, "Food & Culinary"))
	}
	for i := 1; i <= 10; i++ {
		peak := matchRow(fmt.Sprintf("Peak Stop %d", i), 0.95, "Outdoor")
		peak.CrowdLevel = "high"
		matches = append(matches, peak)
	}

	emb := &fakeEmbeddingRepo{matches: matches}
	pool := newRankerForTest(emb, &fakeActivityRepo{}).BuildPool(context.Background(), RankContext{
		Queries:         []string{"two rainy days of eating in Hanoi"},
		Interests:       []string{"Food & Culinary"},
		WeatherCategory: "rainy",
		CrowdedNow:      true,
		Now:             weekdayEvening,
	})

	require.Equal(t, 35, pool.Len())
	for _, a := range pool.Items() {
		require.False(t, strings.HasPrefix(a.Title, "Peak"), "peak candidate %q survived", a.Title)
		require.True(t,
			hasAnyTag(a, []string{"Indoor-Friendly"}) || hasAnyTag(a, []string{"Food & Culinary"}),
			"candidate %q matches neither weather nor interest", a.Title)
	}

	// The surviving pool drives a full grid with only admissible activities.
	var generated []response_models.ItineraryActivity
	for _, a := range pool.Items()[:6] {
		generated = append(generated, generatedActivity(a.Title, "anytime"))
	}
	it := response_models.Itinerary{
		Title:    "Rainy Weekend",
		Subtitle: "Museums and markets, mostly dry",
		Items:    []response_models.ItineraryPeriod{{Period: "whenever", Activities: generated}},
	}
	out := NewOrganizerService().Organize(it, pool, 2).Itinerary()

	require.Len(t, out.Items, 6)
	require.Equal(t, 6, out.ActivityCount())
	for _, p := range out.Items {
		for _, act := range p.Activities {
			require.True(t,
				hasAnyTag(RankedActivity{Tags: act.Tags}, []string{"Indoor-Friendly", "Food & Culinary"}),
				"activity %q in %q lost its constraint tags", act.Title, p.Period)
		}
	}
}
