package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"kinship/internal/models"
	"kinship/internal/retry"
)

var (
	// ErrUnavailable is returned when a flow fails after every retry
	ErrUnavailable = errors.New("AI service unavailable")

	// ErrNotConfigured is wrapped into ErrUnavailable when no generator is set
	ErrNotConfigured = errors.New("AI generator not configured")
)

// Flow names, used in logs and transitions
const (
	FlowRelatives = "predict_relatives"
	FlowAncestry  = "estimate_ancestry"
	FlowInsights  = "generational_insights"
	FlowAssistant = "assistant"
)

// Defaults for Options fields left at zero
const (
	DefaultMaxInputChars      = 100000
	DefaultMaxComparisons     = 50
	DefaultMaxComparisonChars = 2000
)

// Options configures a Gateway
type Options struct {
	Policy retry.Policy

	// MaxInputChars bounds the user's DNA text and the assistant context
	MaxInputChars int
	// MaxComparisons bounds how many other users' DNA are sent
	MaxComparisons int
	// MaxComparisonChars bounds each comparison DNA text
	MaxComparisonChars int

	Logger   *zap.Logger
	Observer Observer
}

// Comparison is another user's DNA offered for relative matching
type Comparison struct {
	UserID string
	DNA    string
}

// RelativesInput is the request for PredictRelatives
type RelativesInput struct {
	DNA         string
	Comparisons []Comparison
	// FamilyTree is a plain-text summary of the user's tree, or empty
	FamilyTree string
}

// Gateway runs the model flows under a retry policy
type Gateway struct {
	gen  Generator
	opts Options
	log  *zap.Logger
}

// NewGateway creates a gateway. A nil generator yields a gateway whose
// calls all fail with ErrUnavailable.
func NewGateway(gen Generator, opts Options) *Gateway {
	if opts.Policy.MaxAttempts == 0 {
		opts.Policy = retry.Default()
	}
	if opts.MaxInputChars == 0 {
		opts.MaxInputChars = DefaultMaxInputChars
	}
	if opts.MaxComparisons == 0 {
		opts.MaxComparisons = DefaultMaxComparisons
	}
	if opts.MaxComparisonChars == 0 {
		opts.MaxComparisonChars = DefaultMaxComparisonChars
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{gen: gen, opts: opts, log: log.Named("ai")}
}

// Configured reports whether a generator is available
func (g *Gateway) Configured() bool {
	return g.gen != nil
}

func (g *Gateway) observe(t Transition) {
	if g.opts.Observer != nil {
		g.opts.Observer(t)
	}
}

// call runs one flow: each attempt generates and parses; a parse failure
// counts as a failed attempt
func call[T any](ctx context.Context, g *Gateway, flow string, req Request, parse func(string) (T, error)) (T, error) {
	var zero T
	if g.gen == nil {
		g.observe(Transition{Flow: flow, State: StateFailed, Err: ErrNotConfigured})
		return zero, fmt.Errorf("%w: %w", ErrUnavailable, ErrNotConfigured)
	}

	policy := g.opts.Policy
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		g.log.Warn("model call failed, retrying",
			zap.String("flow", flow),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		g.observe(Transition{Flow: flow, State: StateRetrying, Attempt: attempt, Err: err})
	}

	start := time.Now()
	result, err := retry.DoValue(ctx, policy, func(ctx context.Context, attempt int) (T, error) {
		g.observe(Transition{Flow: flow, State: StateRequesting, Attempt: attempt})
		text, err := g.gen.Generate(ctx, req)
		if err != nil {
			if !retryable(err) {
				return zero, retry.Permanent(err)
			}
			return zero, err
		}
		return parse(text)
	})
	if err != nil {
		g.log.Error("model call failed",
			zap.String("flow", flow),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		g.observe(Transition{Flow: flow, State: StateFailed, Err: err})
		return zero, fmt.Errorf("%w: %s: %w", ErrUnavailable, flow, err)
	}

	g.log.Debug("model call succeeded", zap.String("flow", flow), zap.Duration("elapsed", time.Since(start)))
	g.observe(Transition{Flow: flow, State: StateSuccess})
	return result, nil
}

// retryable reports whether another attempt could succeed. Cancelled or
// expired contexts and refused prompts fail the same way every time.
func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, ErrPromptBlocked)
}

// PredictRelatives asks the model which comparison users are likely
// relatives. Entries without a userId, or naming a user that was not
// offered for comparison, are dropped.
func (g *Gateway) PredictRelatives(ctx context.Context, in RelativesInput) ([]models.PredictedRelative, error) {
	comparisons := in.Comparisons
	if len(comparisons) > g.opts.MaxComparisons {
		comparisons = comparisons[:g.opts.MaxComparisons]
	}
	known := make(map[string]bool, len(comparisons))
	trimmed := make([]Comparison, 0, len(comparisons))
	for _, c := range comparisons {
		known[c.UserID] = true
		trimmed = append(trimmed, Comparison{UserID: c.UserID, DNA: truncate(c.DNA, g.opts.MaxComparisonChars)})
	}

	req := Request{
		System: genealogySystem,
		Prompt: relativesPrompt(truncate(in.DNA, g.opts.MaxInputChars), trimmed, truncate(in.FamilyTree, g.opts.MaxInputChars)),
		JSON:   true,
	}

	return call(ctx, g, FlowRelatives, req, func(text string) ([]models.PredictedRelative, error) {
		relatives, err := parseRelatives(text)
		if err != nil {
			return nil, err
		}
		out := make([]models.PredictedRelative, 0, len(relatives))
		for _, r := range relatives {
			if r.UserID == "" || !known[r.UserID] {
				continue
			}
			r.RelationshipProbability = normalizeProbability(r.RelationshipProbability)
			out = append(out, r)
		}
		return out, nil
	})
}

func parseRelatives(text string) ([]models.PredictedRelative, error) {
	var relatives []models.PredictedRelative
	arrErr := decodeJSON(text, &relatives)
	if arrErr == nil {
		return relatives, nil
	}

	// Some responses wrap the array in an object
	var wrapped struct {
		Relatives *[]models.PredictedRelative `json:"relatives"`
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &wrapped); err == nil && wrapped.Relatives != nil {
		return *wrapped.Relatives, nil
	}
	return nil, arrErr
}

// normalizeProbability accepts percentages and clamps to [0, 1]
func normalizeProbability(p float64) float64 {
	if p > 1 && p <= 100 {
		p /= 100
	}
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// EstimateAncestry asks the model for an ethnicity report
func (g *Gateway) EstimateAncestry(ctx context.Context, snpData string) (models.AncestryEstimate, error) {
	req := Request{
		System: genealogySystem,
		Prompt: ancestryPrompt(truncate(snpData, g.opts.MaxInputChars)),
		JSON:   true,
	}

	return call(ctx, g, FlowAncestry, req, func(text string) (models.AncestryEstimate, error) {
		var out models.AncestryEstimate
		if err := decodeJSON(text, &out); err != nil {
			return out, err
		}
		if strings.TrimSpace(out.EthnicityEstimates) == "" {
			return out, fmt.Errorf("malformed model output: missing ethnicityEstimates")
		}
		return out, nil
	})
}

// GenerationalInsights asks the model for health, trait and ancestry narratives
func (g *Gateway) GenerationalInsights(ctx context.Context, markers string) (models.GenerationalInsights, error) {
	req := Request{
		System: genealogySystem,
		Prompt: insightsPrompt(truncate(markers, g.opts.MaxInputChars)),
		JSON:   true,
	}

	return call(ctx, g, FlowInsights, req, func(text string) (models.GenerationalInsights, error) {
		var out models.GenerationalInsights
		if err := decodeJSON(text, &out); err != nil {
			return out, err
		}
		if out.HealthInsights == "" && out.TraitInsights == "" && out.AncestryInsights == "" {
			return out, fmt.Errorf("malformed model output: no insights")
		}
		return out, nil
	})
}

// AskAssistant answers a free-text genealogy question. userContext is an
// optional JSON blob describing the asking user.
func (g *Gateway) AskAssistant(ctx context.Context, query, userContext string) (string, error) {
	req := Request{
		System: assistantSystem,
		Prompt: assistantPrompt(truncate(query, g.opts.MaxInputChars), truncate(userContext, g.opts.MaxInputChars)),
	}

	return call(ctx, g, FlowAssistant, req, func(text string) (string, error) {
		text = strings.TrimSpace(text)
		if text == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	})
}
