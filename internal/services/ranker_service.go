package services

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"voyago/internal/models/db_models"
	"voyago/internal/repositories"
	"voyago/pkg/logger"
	"voyago/pkg/utils"
)

// PeakPolicy controls what happens to candidates that are peak-crowded at
// request time.
type PeakPolicy int

const (
	// PeakPolicyStrict drops currently peak-crowded candidates outright.
	PeakPolicyStrict PeakPolicy = iota
	// PeakPolicyPenalty keeps them with a score penalty.
	PeakPolicyPenalty
)

const (
	maxInterestBoost  = 0.3
	maxWeatherBoost   = 0.2
	offPeakBonus      = 0.1
	peakPenalty       = 0.25
	maxPoolSize       = 40
	searchLimit       = 15
	keywordSimilarity = 0.3
)

// weatherTagSets maps a weather category to the activity tags suited to it.
var weatherTagSets = map[string][]string{
	"rainy":  {"Indoor-Friendly", "Museum", "Gallery", "Cafe"},
	"sunny":  {"Outdoor", "Nature", "Beach", "Park"},
	"cloudy": {"Outdoor", "Walking", "Market"},
	"hot":    {"Indoor-Friendly", "Water", "Cafe"},
	"cold":   {"Indoor-Friendly", "Museum", "Hot Spring"},
}

// RankContext carries everything one ranking pass needs. CrowdedNow is the
// live congestion signal for the destination; a candidate counts as
// peak-crowded only when that signal is up AND its own peak descriptor
// covers the current moment.
type RankContext struct {
	Queries         []string
	Interests       []string
	WeatherCategory string
	CrowdedNow      bool
	TrafficLevel    string
	Policy          PeakPolicy
	Now             time.Time
}

type RankerServiceInterface interface {
	BuildPool(ctx context.Context, rc RankContext) *CandidatePool
}

type RankerService struct {
	embeddingRepo repositories.ActivityEmbeddingRepository
	activityRepo  repositories.ActivityRepository
	backend       utils.GenerationBackendInterface
	log           *logger.Logger
}

func NewRankerService(
	embeddingRepo repositories.ActivityEmbeddingRepository,
	activityRepo repositories.ActivityRepository,
	backend utils.GenerationBackendInterface,
	log *logger.Logger,
) RankerServiceInterface {
	return &RankerService{
		embeddingRepo: embeddingRepo,
		activityRepo:  activityRepo,
		backend:       backend,
		log:           log.With("service", "ranker"),
	}
}

// BuildPool never fails: a broken retrieval path degrades to keyword search
// and, at worst, yields an empty pool.
func (r *RankerService) BuildPool(ctx context.Context, rc RankContext) *CandidatePool {
	raw := NewCandidatePool()

	if err := r.collectBySimilarity(ctx, rc.Queries, raw); err != nil {
		r.log.Warn("similarity retrieval failed, degrading to keyword search", "error", err)
		r.collectByKeyword(ctx, rc.Queries, raw)
	}
	if raw.Len() == 0 {
		r.collectByKeyword(ctx, rc.Queries, raw)
	}

	return r.rank(raw, rc)
}

func (r *RankerService) collectBySimilarity(ctx context.Context, queries []string, pool *CandidatePool) error {
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		vec, err := r.backend.GetEmbedding(ctx, q)
		if err != nil {
			return err
		}
		matches, err := r.embeddingRepo.SearchSimilar(ctx, vec, searchLimit)
		if err != nil {
			return err
		}
		for _, m := range matches {
			pool.Add(RankedActivity{
				Title:       m.Title,
				Description: m.Description,
				TimeWindow:  m.TimeWindow,
				Image:       m.Image,
				PeakHours:   m.PeakHours,
				CrowdLevel:  m.CrowdLevel,
				Tags:        append([]string(nil), m.Tags...),
				Similarity:  m.Similarity,
			})
		}
	}
	return nil
}

func (r *RankerService) collectByKeyword(ctx context.Context, queries []string, pool *CandidatePool) {
	for _, kw := range searchKeywords(queries) {
		activities, err := r.activityRepo.SearchByKeyword(ctx, kw, searchLimit)
		if err != nil {
			r.log.Debug("keyword search failed", "keyword", kw, "error", err)
			continue
		}
		for _, a := range activities {
			pool.Add(RankedActivity{
				Title:       a.Title,
				Description: a.Description,
				TimeWindow:  a.TimeWindow,
				Image:       a.Image,
				PeakHours:   a.PeakHours,
				CrowdLevel:  a.CrowdLevel,
				Tags:        flattenTags(a.Tags),
				Similarity:  keywordSimilarity,
			})
		}
	}
}

// rank scores, filters, sorts and truncates the raw pool into the final one.
func (r *RankerService) rank(raw *CandidatePool, rc RankContext) *CandidatePool {
	weatherTags := weatherTagSets[strings.ToLower(strings.TrimSpace(rc.WeatherCategory))]

	kept := make([]RankedActivity, 0, raw.Len())
	for _, a := range raw.Items() {
		if rc.Policy == PeakPolicyStrict && isPeakNow(a, rc) {
			continue
		}
		if !matchesConstraints(a, weatherTags, rc.Interests) {
			continue
		}
		a.Score = scoreActivity(a, rc, weatherTags)
		kept = append(kept, a)
	}

	// A tag filter that empties the pool is worse than a loose pool; relax
	// the tag constraints but never the peak exclusion.
	if len(kept) == 0 {
		for _, a := range raw.Items() {
			if rc.Policy == PeakPolicyStrict && isPeakNow(a, rc) {
				continue
			}
			a.Score = scoreActivity(a, rc, weatherTags)
			kept = append(kept, a)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Similarity > kept[j].Similarity
	})
	if len(kept) > maxPoolSize {
		kept = kept[:maxPoolSize]
	}

	out := NewCandidatePool()
	for _, a := range kept {
		out.Add(a)
	}
	return out
}

func scoreActivity(a RankedActivity, rc RankContext, weatherTags []string) float64 {
	score := a.Similarity
	score += maxInterestBoost * matchedFraction(rc.Interests, a.Tags)
	score += maxWeatherBoost * matchedFraction(weatherTags, a.Tags)
	if isPeakNow(a, rc) {
		score -= peakPenalty
	} else {
		score += offPeakBonus
	}
	return score
}

func isPeakNow(a RankedActivity, rc RankContext) bool {
	if !rc.CrowdedNow {
		return false
	}
	return strings.EqualFold(a.CrowdLevel, "high") || peakWindowMatches(a.PeakHours, rc.Now)
}

var peakRangeRe = regexp.MustCompile(`(\d{1,2})(?::\d{2})?\s*-\s*(\d{1,2})(?::\d{2})?`)

// peakWindowMatches reports whether a free-text peak descriptor like
// "weekend mornings" or "17:00-20:00" covers the given moment.
func peakWindowMatches(desc string, now time.Time) bool {
	desc = strings.ToLower(strings.TrimSpace(desc))
	if desc == "" {
		return false
	}
	if now.IsZero() {
		now = time.Now()
	}
	hour := now.Hour()
	weekend := now.Weekday() == time.Saturday || now.Weekday() == time.Sunday

	if strings.Contains(desc, "weekend") && weekend {
		return true
	}
	if strings.Contains(desc, "morning") && hour >= 6 && hour < 12 {
		return true
	}
	if strings.Contains(desc, "afternoon") && hour >= 12 && hour < 18 {
		return true
	}
	if (strings.Contains(desc, "evening") || strings.Contains(desc, "night")) && hour >= 18 {
		return true
	}
	for _, m := range peakRangeRe.FindAllStringSubmatch(desc, -1) {
		from, err1 := strconv.Atoi(m[1])
		to, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		if from <= hour && hour < to {
			return true
		}
	}
	return false
}

// matchedFraction reports how many of the wanted tags appear in have,
// case-insensitively, as a fraction of wanted.
func matchedFraction(wanted, have []string) float64 {
	if len(wanted) == 0 {
		return 0
	}
	haveSet := make(map[string]struct{}, len(have))
	for _, t := range have {
		haveSet[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	matched := 0
	for _, w := range wanted {
		if _, ok := haveSet[strings.ToLower(strings.TrimSpace(w))]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(wanted))
}

func hasAnyTag(a RankedActivity, wanted []string) bool {
	return matchedFraction(wanted, a.Tags) > 0
}

func matchesConstraints(a RankedActivity, weatherTags, interests []string) bool {
	if len(weatherTags) == 0 && len(interests) == 0 {
		return true
	}
	return hasAnyTag(a, weatherTags) || hasAnyTag(a, interests)
}

// searchKeywords extracts distinct lowercase keywords from the queries for
// the degraded retrieval path.
func searchKeywords(queries []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, q := range queries {
		for _, w := range strings.Fields(strings.ToLower(q)) {
			w = strings.Trim(w, ".,!?;:()\"'")
			if len(w) <= 3 {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
			if len(out) >= 8 {
				return out
			}
		}
	}
	return out
}

func flattenTags(tags []db_models.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Name != "" {
			out = append(out, t.Name)
		}
	}
	return out
}
