package enrich

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/narrisia/inbox-intel/internal/credibility"
	"github.com/narrisia/inbox-intel/internal/identity"
	"github.com/narrisia/inbox-intel/internal/model"
	"github.com/narrisia/inbox-intel/pkg/anthropic"
)

// Defaults for Config fields left at their zero value.
const (
	DefaultMaxConcurrency   = 5
	DefaultCallTimeout      = 20 * time.Second
	DefaultCredibilityFloor = 30.0
	DefaultMaxTokens        = 1024
)

// Config controls a single enrichment run.
type Config struct {
	// Model is the inference model used for analysis and relevancy calls.
	Model string
	// MaxTokens caps each inference response.
	MaxTokens int64
	// MaxConcurrency bounds in-flight message enrichments.
	MaxConcurrency int
	// CallTimeout bounds each individual inference call. Enrichment of a
	// message that times out falls back to synthesized values.
	CallTimeout time.Duration
	// CredibilityFloor is the score below which recognized-company
	// metrics replace provider metrics when they score higher. Zero
	// means the default floor; a negative value disables re-derivation
	// entirely.
	CredibilityFloor float64
	// InferenceRPS throttles inference calls across the whole batch.
	// Zero means unthrottled.
	InferenceRPS float64
}

func (c Config) withDefaults() Config {
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.CredibilityFloor == 0 {
		c.CredibilityFloor = DefaultCredibilityFloor
	} else if c.CredibilityFloor < 0 {
		c.CredibilityFloor = 0
	}
	return c
}

// Orchestrator runs the full enrichment pipeline over message batches:
// identity resolution, profile analysis, credibility scoring, intent
// classification, and relevancy scoring.
type Orchestrator struct {
	ai        anthropic.Client
	resolver  *identity.Resolver
	tiers     TierTable
	relevancy *RelevancyScorer
	limiter   *rate.Limiter
	cfg       Config
}

// NewOrchestrator wires an orchestrator with default identity tables
// and tier data.
func NewOrchestrator(ai anthropic.Client, cfg Config) *Orchestrator {
	cfg = cfg.withDefaults()
	var limiter *rate.Limiter
	if cfg.InferenceRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.InferenceRPS), 1)
	}
	return &Orchestrator{
		ai:        ai,
		resolver:  identity.Default(),
		tiers:     DefaultTiers(),
		relevancy: NewRelevancyScorer(ai, cfg.Model, cfg.MaxTokens),
		limiter:   limiter,
		cfg:       cfg,
	}
}

// WithResolver swaps the identity resolver, for callers carrying custom
// lookup tables.
func (o *Orchestrator) WithResolver(r *identity.Resolver) *Orchestrator {
	o.resolver = r
	return o
}

// WithTiers swaps the recognized-company tier table.
func (o *Orchestrator) WithTiers(t TierTable) *Orchestrator {
	o.tiers = t
	return o
}

// Enrich processes msgs with bounded concurrency and returns one result
// per surviving message, in input order. A message is dropped only when
// its enrichment panics; inference failures and timeouts still produce
// a result built from synthesized fallback values.
func (o *Orchestrator) Enrich(ctx context.Context, msgs []model.RawMessage, domainContext string) ([]model.EnrichmentResult, error) {
	if len(msgs) == 0 {
		return []model.EnrichmentResult{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "enrich: batch cancelled")
	}

	start := time.Now()
	slots := make([]*model.EnrichmentResult, len(msgs))
	var mu sync.Mutex
	var succeeded, panicked atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.MaxConcurrency)

	for i, msg := range msgs {
		i, msg := i, msg
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					panicked.Add(1)
					zap.L().Error("enrich: message enrichment panicked",
						zap.String("message_id", msg.ID),
						zap.Any("panic", r),
					)
				}
			}()

			res := o.enrichOne(gCtx, msg, domainContext)

			mu.Lock()
			slots[i] = &res
			mu.Unlock()
			succeeded.Add(1)
			return nil
		})
	}

	_ = g.Wait()

	results := make([]model.EnrichmentResult, 0, len(msgs))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	zap.L().Info("enrich: batch complete",
		zap.Int("messages", len(msgs)),
		zap.Int64("enriched", succeeded.Load()),
		zap.Int64("dropped", panicked.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return results, nil
}

// enrichOne runs the full pipeline for a single message. It never
// returns an error: every failure mode degrades to fallback values so
// the message still yields a result.
func (o *Orchestrator) enrichOne(ctx context.Context, msg model.RawMessage, domainContext string) model.EnrichmentResult {
	ident := o.resolver.Resolve(msg.SenderHeader, msg.Subject, msg.Content())
	tier := o.tiers.Recognize(ident.Name)

	profile, metrics, intent, summary := o.analyze(ctx, msg, ident, tier)

	metrics = credibility.ApplyDefaults(metrics)
	assessment := credibility.Score(metrics)
	assessment = o.applyFloor(assessment, metrics, tier, ident.Name)

	relevancy := o.scoreRelevancy(ctx, msg, ident.Name, domainContext)

	return model.EnrichmentResult{
		ID:           uuid.NewString(),
		MessageID:    msg.ID,
		Sender:       msg.SenderHeader,
		SenderDomain: o.resolver.Domain(msg.SenderHeader),
		Identity:     ident,
		Profile:      profile,
		Credibility:  assessment,
		Quality:      model.QualityForScore(assessment.Score),
		Intent:       intent,
		Relevancy:    relevancy,
		Summary:      summary,
		EnrichedAt:   time.Now().UTC(),
	}
}

// analyze runs the single combined profile+intent inference call and
// parses its response. On any failure it synthesizes a profile and
// metrics from tier data and returns the unknown intent with the
// failure reason in the notes.
func (o *Orchestrator) analyze(ctx context.Context, msg model.RawMessage, ident model.CompanyIdentity, tier TierName) (model.CompanyProfile, model.CredibilityMetrics, model.IntentClassification, string) {
	resp, err := o.inferOnce(ctx, analysisSystemPrompt, buildAnalysisPrompt(msg, ident.Name))
	if err != nil {
		zap.L().Warn("enrich: analysis inference failed",
			zap.String("message_id", msg.ID),
			zap.String("company", ident.Name),
			zap.Error(err),
		)
		return o.fallbackAnalysis(ident, tier, "analysis call failed: "+err.Error())
	}

	payload, err := parseAnalysis(resp.Text())
	if err != nil {
		zap.L().Warn("enrich: unparsable analysis response",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return o.fallbackAnalysis(ident, tier, "analysis response unparsable: "+err.Error())
	}

	profile := profileFrom(payload.Company)
	metrics := metricsFrom(payload.Company)
	intent := intentFrom(payload.Intent)
	summary := payload.Summary
	if summary == "" {
		summary = "No summary available"
	}
	return profile, metrics, intent, summary
}

// fallbackAnalysis builds the degraded analysis outcome from tier data.
func (o *Orchestrator) fallbackAnalysis(ident model.CompanyIdentity, tier TierName, reason string) (model.CompanyProfile, model.CredibilityMetrics, model.IntentClassification, string) {
	profile := o.tiers.ProfileFor(ident.Name, tier)
	metrics := o.tiers.MetricsFor(tier)
	return profile, metrics, unknownIntent(reason), "Enrichment unavailable for this message"
}

// applyFloor re-derives credibility from tier metrics when the provider
// score lands below the floor and tier data scores higher. Unrecognized
// companies keep their provider score.
func (o *Orchestrator) applyFloor(assessment model.CredibilityAssessment, metrics model.CredibilityMetrics, tier TierName, name string) model.CredibilityAssessment {
	if assessment.Score >= o.cfg.CredibilityFloor || tier == TierUnknown {
		return assessment
	}
	tierMetrics := o.tiers.MetricsFor(tier)
	tierAssessment := credibility.Score(tierMetrics)
	if tierAssessment.Score <= assessment.Score {
		return assessment
	}
	zap.L().Debug("enrich: credibility floor re-derivation",
		zap.String("company", name),
		zap.Float64("provider_score", assessment.Score),
		zap.Float64("tier_score", tierAssessment.Score),
	)
	return tierAssessment
}

// inferOnce issues exactly one inference call under the per-call
// timeout. There are no retries.
func (o *Orchestrator) inferOnce(ctx context.Context, system, prompt string) (*anthropic.MessageResponse, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "enrich: rate limit wait")
		}
	}
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()

	return o.ai.CreateMessage(callCtx, anthropic.MessageRequest{
		Model:     o.cfg.Model,
		MaxTokens: o.cfg.MaxTokens,
		System:    system,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
}

// scoreRelevancy applies the same rate limit and per-call timeout to
// the relevancy pass. The scorer itself short-circuits when no domain
// context is supplied, so the limiter is only consulted for real calls.
func (o *Orchestrator) scoreRelevancy(ctx context.Context, msg model.RawMessage, companyName, domainContext string) model.RelevancyAssessment {
	if strings.TrimSpace(domainContext) == "" {
		return NeutralRelevancy()
	}
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return model.RelevancyAssessment{
				Score:       50,
				Explanation: "relevancy call failed: " + err.Error(),
				Confidence:  0,
			}
		}
	}
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()
	return o.relevancy.Score(callCtx, msg, companyName, domainContext)
}
