package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidProfile is returned when a submitted form cannot be turned into a StudentProfile.
var ErrInvalidProfile = errors.New("invalid student profile")

// Category is the qualitative bucket derived from three predicted scores.
type Category string

const (
	CategoryGood            Category = "Good student"
	CategoryGoodCanBeBetter Category = "Good but can do better"
	CategoryScope           Category = "Scope of improvement"
	CategoryCanBeBetter     Category = "Can be better"
	CategoryWorkHardest     Category = "Needs to work the hardest"
)

// Categories lists every category from best to worst.
var Categories = []Category{
	CategoryGood,
	CategoryGoodCanBeBetter,
	CategoryScope,
	CategoryCanBeBetter,
	CategoryWorkHardest,
}

// ScoreTriple holds the three predicted scores (first period, second period, final).
type ScoreTriple [3]float64

// Rounded returns the scores rounded to one decimal place.
func (s ScoreTriple) Rounded() ScoreTriple {
	var out ScoreTriple
	for i, v := range s {
		out[i] = math.Round(v*10) / 10
	}
	return out
}

// String formats the rounded scores as "[12.3, 14.0, 9.9]".
func (s ScoreTriple) String() string {
	r := s.Rounded()
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = fmt.Sprintf("%.1f", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// NarrativeSource tells where an analysis narrative came from.
type NarrativeSource string

const (
	SourceAI            NarrativeSource = "ai"
	SourceNotConfigured NarrativeSource = "not_configured"
	SourceUnavailable   NarrativeSource = "unavailable"
	SourceRules         NarrativeSource = "rules"
)

// AnalysisResult is the outcome of one prediction request.
type AnalysisResult struct {
	ID        string
	Category  Category
	Scores    ScoreTriple
	Source    NarrativeSource
	Narrative string // markdown
	HTML      string // sanitized HTML rendered from Narrative
}

// ChatMode selects what the chat proxy does once retries are exhausted.
type ChatMode string

const (
	// ChatStrict surfaces the failure to the caller.
	ChatStrict ChatMode = "strict"
	// ChatLenient answers with a keyword-matched canned reply.
	ChatLenient ChatMode = "lenient"
)

// FallbackPolicy selects the prediction narrative used once retries are exhausted.
type FallbackPolicy string

const (
	// FallbackCanned returns a short "temporarily unavailable" message.
	FallbackCanned FallbackPolicy = "canned"
	// FallbackRules synthesizes a narrative from the profile.
	FallbackRules FallbackPolicy = "rules"
)

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	ModelPath      string
	DatasetPath    string
	LLMModel       string
	MaxAttempts    int
	ChatMode       ChatMode
	FallbackPolicy FallbackPolicy
	PageSize       int
}
