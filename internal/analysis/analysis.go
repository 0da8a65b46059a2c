// Package analysis turns a prediction into a narrative: an AI-written one
// when the chat service answers, or a deterministic fallback when it does not.
// Analyze never fails; the category and scores always reach the caller.
package analysis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pavelanni/eduimpact/internal/llm"
	"github.com/pavelanni/eduimpact/internal/llm/prompts"
	"github.com/pavelanni/eduimpact/internal/markdown"
	"github.com/pavelanni/eduimpact/internal/metrics"
	"github.com/pavelanni/eduimpact/internal/model"
)

const (
	maxTokens   = 600
	temperature = 0.7
)

// Analyzer builds analysis narratives for predictions.
type Analyzer struct {
	retrier  *llm.Retrier
	fallback model.FallbackPolicy
	logger   *slog.Logger
}

// New creates an Analyzer. An unknown policy is treated as FallbackRules.
func New(retrier *llm.Retrier, fallback model.FallbackPolicy, logger *slog.Logger) *Analyzer {
	if fallback != model.FallbackCanned {
		fallback = model.FallbackRules
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		retrier:  retrier,
		fallback: fallback,
		logger:   logger.With("component", "analysis"),
	}
}

// Analyze produces the analysis result for one prediction.
func (a *Analyzer) Analyze(ctx context.Context, p model.StudentProfile, scores model.ScoreTriple, category model.Category) model.AnalysisResult {
	res := model.AnalysisResult{
		ID:       uuid.NewString(),
		Category: category,
		Scores:   scores,
	}
	log := a.logger.With("analysis_id", res.ID, "category", category)

	res.Source, res.Narrative = a.narrative(ctx, log, p, scores, category)
	res.HTML = string(markdown.ToHTML(res.Narrative))

	metrics.Predictions.WithLabelValues(string(category), string(res.Source)).Inc()
	log.Info("analysis complete", "source", res.Source, "scores", scores.String())
	return res
}

func (a *Analyzer) narrative(ctx context.Context, log *slog.Logger, p model.StudentProfile, scores model.ScoreTriple, category model.Category) (model.NarrativeSource, string) {
	if a.retrier == nil || !a.retrier.Configured() {
		log.Warn("AI client not configured, using placeholder narrative")
		return model.SourceNotConfigured, NotConfiguredNarrative(category, scores)
	}

	prompt, err := prompts.BuildAnalysisPrompt(p, category, scores)
	if err != nil {
		log.Error("build analysis prompt", "error", err)
		return a.exhausted(p, scores, category, err)
	}

	text, err := a.retrier.Complete(ctx, llm.Request{
		Purpose:     "analysis",
		System:      prompts.AnalysisSystem(),
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return model.SourceNotConfigured, NotConfiguredNarrative(category, scores)
		}
		return a.exhausted(p, scores, category, err)
	}
	return model.SourceAI, text
}

func (a *Analyzer) exhausted(p model.StudentProfile, scores model.ScoreTriple, category model.Category, err error) (model.NarrativeSource, string) {
	if a.fallback == model.FallbackCanned {
		return model.SourceUnavailable, UnavailableNarrative(category, scores, err)
	}
	return model.SourceRules, RuleBasedNarrative(p, category, scores)
}
