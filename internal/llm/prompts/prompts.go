package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/eduimpact/internal/model"
)

//go:embed templates/*
var templateFS embed.FS

// MaxMessageRunes caps the size of a chat message forwarded to the model.
const MaxMessageRunes = 4000

var (
	systemInstructionsRegex = regexp.MustCompile(`(?i)</?\s*system-instructions\b[^>]*>`)
	controlCharsRegex       = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

var (
	loadOnce       sync.Once
	loadErr        error
	chatSystem     string
	analysisSystem string
	analysisTmpl   *template.Template
)

var funcs = template.FuncMap{
	"yesno":    model.YesNo,
	"job":      model.JobLabel,
	"reason":   model.ReasonLabel,
	"guardian": model.GuardianLabel,
}

// AnalysisData holds template data for the analysis prompt.
type AnalysisData struct {
	Profile  model.StudentProfile
	Category model.Category
	Scores   string
}

// Load parses the embedded prompt files. It is called lazily by the
// accessors and only does work once.
func Load() error {
	loadOnce.Do(func() {
		b, err := templateFS.ReadFile("templates/chat_system.txt")
		if err != nil {
			loadErr = fmt.Errorf("read chat system prompt: %w", err)
			return
		}
		chatSystem = strings.TrimSpace(string(b))

		b, err = templateFS.ReadFile("templates/analysis_system.txt")
		if err != nil {
			loadErr = fmt.Errorf("read analysis system prompt: %w", err)
			return
		}
		analysisSystem = strings.TrimSpace(string(b))

		b, err = templateFS.ReadFile("templates/analysis.tmpl")
		if err != nil {
			loadErr = fmt.Errorf("read analysis template: %w", err)
			return
		}
		analysisTmpl, err = template.New("analysis").Funcs(funcs).Option("missingkey=error").Parse(string(b))
		if err != nil {
			loadErr = fmt.Errorf("parse analysis template: %w", err)
		}
	})
	return loadErr
}

// ChatSystem returns the topic-restricting system prompt for the chat assistant.
func ChatSystem() string {
	_ = Load()
	return chatSystem
}

// AnalysisSystem returns the system prompt for prediction narratives.
func AnalysisSystem() string {
	_ = Load()
	return analysisSystem
}

// BuildAnalysisPrompt renders the user prompt describing a student profile and its prediction.
func BuildAnalysisPrompt(p model.StudentProfile, category model.Category, scores model.ScoreTriple) (string, error) {
	if err := Load(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err := analysisTmpl.Execute(&buf, AnalysisData{
		Profile:  p,
		Category: category,
		Scores:   scores.String(),
	})
	if err != nil {
		return "", fmt.Errorf("render analysis prompt: %w", err)
	}
	return buf.String(), nil
}

// SanitizeMessage strips control characters and prompt-boundary tags from a
// chat message and truncates it to MaxMessageRunes.
func SanitizeMessage(msg string) string {
	msg = systemInstructionsRegex.ReplaceAllString(msg, "")
	msg = controlCharsRegex.ReplaceAllString(msg, "")
	msg = strings.TrimSpace(msg)

	if utf8.RuneCountInString(msg) > MaxMessageRunes {
		runes := []rune(msg)
		msg = string(runes[:MaxMessageRunes])
	}
	return msg
}
