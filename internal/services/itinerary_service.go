package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"voyago/internal/models/db_models"
	"voyago/internal/models/request_models"
	"voyago/internal/models/response_models"
	"voyago/internal/repositories"
	"voyago/pkg/logger"
	mem "voyago/pkg/memcache"
	"voyago/pkg/utils"
)

const planCacheTTL = 30 * time.Minute

type ItineraryServiceInterface interface {
	GenerateItinerary(ctx context.Context, accountID string, req request_models.ItineraryRequest) (*response_models.Itinerary, error)
	ListSavedItineraries(ctx context.Context, accountID string, page, pageSize int) ([]response_models.SavedItinerarySummary, error)
	GetSavedItinerary(ctx context.Context, accountID, itineraryID string) (*response_models.SavedItineraryDetail, error)
}

// ItineraryService is the generation facade: it wires the signal clients,
// the ranker and the orchestrator into one request/response flow and owns
// caching, credits and persistence around it.
type ItineraryService struct {
	ranker        RankerServiceInterface
	orchestrator  OrchestratorServiceInterface
	organizer     OrganizerServiceInterface
	weather       WeatherServiceInterface
	crowd         CrowdServiceInterface
	accountRepo   repositories.AccountRepository
	itineraryRepo repositories.ItineraryRepository
	cache         mem.Store
	log           *logger.Logger
}

func NewItineraryService(
	ranker RankerServiceInterface,
	orchestrator OrchestratorServiceInterface,
	organizer OrganizerServiceInterface,
	weather WeatherServiceInterface,
	crowd CrowdServiceInterface,
	accountRepo repositories.AccountRepository,
	itineraryRepo repositories.ItineraryRepository,
	cache mem.Store,
	log *logger.Logger,
) ItineraryServiceInterface {
	return &ItineraryService{
		ranker:        ranker,
		orchestrator:  orchestrator,
		organizer:     organizer,
		weather:       weather,
		crowd:         crowd,
		accountRepo:   accountRepo,
		itineraryRepo: itineraryRepo,
		cache:         cache,
		log:           log.With("service", "itinerary"),
	}
}

func (s *ItineraryService) GenerateItinerary(ctx context.Context, accountID string, req request_models.ItineraryRequest) (*response_models.Itinerary, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, utils.ErrInvalidInput
	}

	days := 0
	if req.DurationDays != nil {
		days = *req.DurationDays
	}
	if days <= 0 {
		days = ExtractDayCount(req.Prompt)
	}
	days = clampDayCount(days)

	// The cache sits in front of the credit check: a repeated request must
	// not burn a second credit.
	cacheKey := planCacheKey(req, days)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if plan, ok := cached.(response_models.Itinerary); ok {
			s.log.Debug("plan served from cache", "account_id", accountID)
			return &plan, nil
		}
	}

	consumed, err := s.accountRepo.ConsumeCredit(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if !consumed {
		return nil, utils.ErrNoCreditsRemaining
	}

	destination := ExtractDestination(req.Prompt)
	weather := strings.ToLower(strings.TrimSpace(req.WeatherCategory))
	if weather == "" && destination != "" {
		category, werr := s.weather.CategoryFor(ctx, destination)
		switch {
		case werr == nil:
			weather = category
		case errors.Is(werr, utils.ErrServiceNotConfigured):
			// optional signal, keep the request value
		default:
			s.log.Warn("weather lookup failed", "destination", destination, "error", werr)
		}
	}

	var signal CrowdSignal
	if destination != "" {
		sig, cerr := s.crowd.CurrentSignal(ctx, destination)
		switch {
		case cerr == nil:
			signal = sig
		case errors.Is(cerr, utils.ErrServiceNotConfigured):
		default:
			s.log.Warn("crowd lookup failed", "destination", destination, "error", cerr)
		}
	}

	pool := s.ranker.BuildPool(ctx, RankContext{
		Queries:         buildSearchQueries(req, destination),
		Interests:       req.Interests,
		WeatherCategory: weather,
		CrowdedNow:      signal.CrowdedNow,
		TrafficLevel:    signal.TrafficLevel,
		Now:             time.Now(),
	})

	prompt := BuildItineraryPrompt(req.Prompt, pool, days)
	generated, source := s.orchestrator.Generate(ctx, prompt, pool)

	// Fallback plans are already well-formed single-day grids; only model
	// output goes through normalization and backfill.
	final := generated
	if source == SourceGenerated {
		organized := s.organizer.Organize(generated, pool, days)
		s.backfillEmptyPeriods(ctx, organized, req.Prompt)
		final = organized.Itinerary()
	}

	s.cache.Set(cacheKey, final, planCacheTTL)
	s.persistResult(ctx, accountID, days, source, final)

	return &final, nil
}

// backfillEmptyPeriods runs one extra bounded generation proposing
// activities for still-empty slots. Proposals outside the admissible set are
// dropped; any failure leaves the gap reasons in place.
func (s *ItineraryService) backfillEmptyPeriods(ctx context.Context, organized *OrganizedItinerary, userPrompt string) {
	empty := organized.EmptyPeriodLabels()
	if len(empty) == 0 {
		return
	}

	proposal, err := s.orchestrator.GenerateOnce(ctx, buildBackfillPrompt(userPrompt, empty, organized))
	if err != nil {
		s.log.Debug("backfill generation failed", "error", err)
		return
	}

	proposals := make(map[string][]response_models.ItineraryActivity, len(proposal.Items))
	for _, p := range proposal.Items {
		proposals[p.Period] = p.Activities
	}
	accepted := organized.Backfill(proposals)
	s.log.Debug("backfill merged", "accepted", accepted, "empty_periods", len(empty))
}

// persistResult saves best-effort: a storage hiccup must not cost the user a
// finished plan.
func (s *ItineraryService) persistResult(ctx context.Context, accountID string, days int, source GenerationSource, plan response_models.Itinerary) {
	payload, err := json.Marshal(plan)
	if err != nil {
		s.log.Warn("plan payload encode failed", "error", err)
		return
	}
	acctID, err := uuid.Parse(accountID)
	if err != nil {
		s.log.Warn("plan not persisted, bad account id", "account_id", accountID)
		return
	}
	record := &db_models.ItineraryRecord{
		AccountID:    acctID,
		Title:        plan.Title,
		Subtitle:     plan.Subtitle,
		DurationDays: days,
		Source:       string(source),
		Payload:      datatypes.JSON(payload),
	}
	if _, err := s.itineraryRepo.SaveItinerary(ctx, record); err != nil {
		s.log.Warn("plan not persisted", "error", err)
	}
}

// planCacheKey hashes the request dimensions that change the output.
func planCacheKey(req request_models.ItineraryRequest, days int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%s|%d",
		strings.ToLower(strings.TrimSpace(req.Prompt)),
		strings.ToLower(req.WeatherCategory),
		strings.ToLower(strings.Join(req.Interests, ",")),
		days,
		NormalizeBudget(req.Budget),
		req.GroupSize,
	)
	return "plan:" + hex.EncodeToString(h.Sum(nil))
}

func (s *ItineraryService) ListSavedItineraries(ctx context.Context, accountID string, page, pageSize int) ([]response_models.SavedItinerarySummary, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	records, err := s.itineraryRepo.ListItinerariesByAccount(ctx, page, pageSize, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.SavedItinerarySummary, 0, len(records))
	for _, rec := range records {
		out = append(out, response_models.SavedItinerarySummary{
			ID:           rec.ID.String(),
			Title:        rec.Title,
			Subtitle:     rec.Subtitle,
			DurationDays: rec.DurationDays,
			Source:       rec.Source,
			CreatedAt:    utils.FormatRFC3339(utils.FromUnixSeconds(rec.CreatedAt)),
		})
	}
	return out, nil
}

func (s *ItineraryService) GetSavedItinerary(ctx context.Context, accountID, itineraryID string) (*response_models.SavedItineraryDetail, error) {
	record, err := s.itineraryRepo.GetItineraryById(ctx, itineraryID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	// Hide other accounts' plans behind the same not-found answer.
	if record == nil || record.AccountID.String() != accountID {
		return nil, utils.ErrItineraryNotFound
	}

	var plan response_models.Itinerary
	if err := json.Unmarshal(record.Payload, &plan); err != nil {
		s.log.Error("stored plan payload unreadable", "itinerary_id", itineraryID, "error", err)
		return nil, utils.ErrDatabaseError
	}

	return &response_models.SavedItineraryDetail{
		ID:           record.ID.String(),
		DurationDays: record.DurationDays,
		Source:       record.Source,
		CreatedAt:    utils.FormatRFC3339(utils.FromUnixSeconds(record.CreatedAt)),
		Itinerary:    plan,
	}, nil
}
