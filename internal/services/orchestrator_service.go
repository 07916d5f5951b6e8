package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"voyago/internal/models/response_models"
	"voyago/pkg/httpx"
	"voyago/pkg/logger"
	"voyago/pkg/utils"
)

const (
	maxStrategyAttempts = 3
	perCallTimeout      = 45 * time.Second
	backoffBase         = 500 * time.Millisecond
	backoffCap          = 3 * time.Second
	generationMaxTokens = 4096
)

// GenerationSource tells callers whether a plan came from a model or from
// the pool-based synthesizer.
type GenerationSource string

const (
	SourceGenerated GenerationSource = "generated"
	SourceFallback  GenerationSource = "fallback"
)

// GenerationMetrics aggregates per-process generation counters. Attempts and
// fallbacks are atomics so the hot path never blocks; the per-strategy win
// map takes a mutex.
type GenerationMetrics struct {
	attempts  atomic.Int64
	fallbacks atomic.Int64

	mu   sync.Mutex
	wins map[string]int64
}

func NewGenerationMetrics() *GenerationMetrics {
	return &GenerationMetrics{wins: make(map[string]int64)}
}

func (m *GenerationMetrics) RecordAttempt()  { m.attempts.Add(1) }
func (m *GenerationMetrics) RecordFallback() { m.fallbacks.Add(1) }

func (m *GenerationMetrics) RecordWin(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wins[strategy]++
}

func (m *GenerationMetrics) Snapshot() response_models.GenerationStats {
	m.mu.Lock()
	wins := make(map[string]int64, len(m.wins))
	for k, v := range m.wins {
		wins[k] = v
	}
	m.mu.Unlock()

	return response_models.GenerationStats{
		Attempts:       m.attempts.Load(),
		Fallbacks:      m.fallbacks.Load(),
		WinsByStrategy: wins,
	}
}

// generationStrategy is one independent path toward a validated itinerary:
// its own prompt posture, temperature ladder and retry loop.
type generationStrategy struct {
	name         string
	temperatures []float32
	forceJSON    bool
	schemaHint   string
	strictFrom   int // attempt number from which the strict prompt kicks in; 0 = never
}

var generationStrategies = []generationStrategy{
	{
		name:         "structured",
		temperatures: []float32{0.3, 0.2, 0.1},
		forceJSON:    true,
		schemaHint:   itinerarySchemaHint,
	},
	{
		name:         "freeform",
		temperatures: []float32{0.7, 0.4, 0.1},
		strictFrom:   2,
	},
}

type OrchestratorServiceInterface interface {
	Generate(ctx context.Context, prompt string, pool *CandidatePool) (response_models.Itinerary, GenerationSource)
	GenerateOnce(ctx context.Context, prompt string) (response_models.Itinerary, error)
	Metrics() *GenerationMetrics
}

type OrchestratorService struct {
	backend  utils.GenerationBackendInterface
	recovery RecoveryChainInterface
	fallback FallbackServiceInterface
	metrics  *GenerationMetrics
	log      *logger.Logger
}

func NewOrchestratorService(
	backend utils.GenerationBackendInterface,
	recovery RecoveryChainInterface,
	fallback FallbackServiceInterface,
	log *logger.Logger,
) OrchestratorServiceInterface {
	return &OrchestratorService{
		backend:  backend,
		recovery: recovery,
		fallback: fallback,
		metrics:  NewGenerationMetrics(),
		log:      log.With("service", "orchestrator"),
	}
}

func (o *OrchestratorService) Metrics() *GenerationMetrics { return o.metrics }

type strategyOutcome struct {
	strategy string
	result   response_models.Itinerary
	ok       bool
}

// Generate races every strategy and resolves with the first validated
// result. It never fails: caller abort and total exhaustion both end in a
// synthesized plan from the pool.
func (o *OrchestratorService) Generate(ctx context.Context, prompt string, pool *CandidatePool) (response_models.Itinerary, GenerationSource) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so losing strategies never block on send.
	outcomes := make(chan strategyOutcome, len(generationStrategies))
	for _, strat := range generationStrategies {
		go func(s generationStrategy) {
			it, ok := o.runStrategy(raceCtx, s, prompt)
			outcomes <- strategyOutcome{strategy: s.name, result: it, ok: ok}
		}(strat)
	}

	for range generationStrategies {
		select {
		case out := <-outcomes:
			if out.ok {
				cancel() // losers stop at their next checkpoint
				o.metrics.RecordWin(out.strategy)
				return out.result, SourceGenerated
			}
		case <-ctx.Done():
			o.log.Warn("generation aborted by caller, synthesizing from pool", "error", ctx.Err())
			o.metrics.RecordFallback()
			return o.fallback.Synthesize(pool), SourceFallback
		}
	}

	o.log.Warn("all strategies exhausted, synthesizing from pool")
	o.metrics.RecordFallback()
	return o.fallback.Synthesize(pool), SourceFallback
}

// runStrategy makes up to maxStrategyAttempts sequential calls, cooling the
// temperature each attempt. Abort checks sit before every attempt; retries
// back off, non-retryable errors abandon the strategy.
func (o *OrchestratorService) runStrategy(ctx context.Context, strat generationStrategy, prompt string) (response_models.Itinerary, bool) {
	for attempt := 1; attempt <= maxStrategyAttempts; attempt++ {
		if ctx.Err() != nil {
			return response_models.Itinerary{}, false
		}

		o.metrics.RecordAttempt()

		callPrompt := prompt
		if strat.strictFrom > 0 && attempt >= strat.strictFrom {
			callPrompt = strictRetryPrompt(prompt)
		}

		raw, err := o.backend.GenerateItinerary(ctx, callPrompt, utils.GenerationOptions{
			Temperature:     strat.temperatures[attempt-1],
			MaxOutputTokens: generationMaxTokens,
			Timeout:         perCallTimeout,
			ForceJSON:       strat.forceJSON,
			SchemaHint:      strat.schemaHint,
		})
		if err != nil {
			if !httpx.IsRetryableError(err) {
				o.log.Warn("strategy abandoned on non-retryable error",
					"strategy", strat.name, "attempt", attempt, "error", err)
				return response_models.Itinerary{}, false
			}
			o.log.Debug("backend call failed, will retry",
				"strategy", strat.name, "attempt", attempt, "error", err)
			o.waitBackoff(ctx, attempt)
			continue
		}

		it, rerr := o.recovery.Recover(ctx, raw)
		if rerr == nil {
			return it, true
		}
		o.log.Debug("response unrecoverable, will retry",
			"strategy", strat.name, "attempt", attempt, "error", rerr)
		o.waitBackoff(ctx, attempt)
	}
	return response_models.Itinerary{}, false
}

// waitBackoff sleeps base*2^(attempt-1) capped, and only between retries;
// after the final attempt it returns immediately.
func (o *OrchestratorService) waitBackoff(ctx context.Context, attempt int) {
	if attempt >= maxStrategyAttempts {
		return
	}
	d := backoffBase << (attempt - 1)
	if d > backoffCap {
		d = backoffCap
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// GenerateOnce makes a single bounded structured call with no retries and no
// fallback. Backfill passes use it so a missing answer stays missing.
func (o *OrchestratorService) GenerateOnce(ctx context.Context, prompt string) (response_models.Itinerary, error) {
	o.metrics.RecordAttempt()
	raw, err := o.backend.GenerateItinerary(ctx, prompt, utils.GenerationOptions{
		Temperature:     0.2,
		MaxOutputTokens: generationMaxTokens,
		Timeout:         perCallTimeout,
		ForceJSON:       true,
		SchemaHint:      itinerarySchemaHint,
	})
	if err != nil {
		return response_models.Itinerary{}, err
	}
	return o.recovery.Recover(ctx, raw)
}
