// Package chat forwards single-turn questions to the topic-restricted assistant.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pavelanni/eduimpact/internal/llm"
	"github.com/pavelanni/eduimpact/internal/llm/prompts"
	"github.com/pavelanni/eduimpact/internal/metrics"
	"github.com/pavelanni/eduimpact/internal/model"
)

// ErrValidation is returned for an empty or missing message.
var ErrValidation = errors.New("no message provided")

const (
	maxTokens   = 500
	temperature = 0.7
)

// Reply is the outcome of a chat request.
type Reply struct {
	Text     string
	Fallback bool // true when Text is a canned keyword response
}

// Proxy validates messages and relays them to the chat service.
type Proxy struct {
	retrier *llm.Retrier
	mode    model.ChatMode
	logger  *slog.Logger
}

// New creates a Proxy. Any mode other than ChatStrict is lenient.
func New(retrier *llm.Retrier, mode model.ChatMode, logger *slog.Logger) *Proxy {
	if mode != model.ChatStrict {
		mode = model.ChatLenient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Proxy{retrier: retrier, mode: mode, logger: logger.With("component", "chat")}
}

// Mode returns the configured exhaustion policy.
func (p *Proxy) Mode() model.ChatMode {
	return p.mode
}

// Reply answers message. It fails with ErrValidation for empty input and with
// llm.ErrNotConfigured when no client is set. Once retries are exhausted it
// fails with llm.ErrUnavailable in strict mode and returns a keyword-matched
// canned reply in lenient mode.
func (p *Proxy) Reply(ctx context.Context, message string) (Reply, error) {
	message = prompts.SanitizeMessage(message)
	if message == "" {
		return Reply{}, ErrValidation
	}
	p.logger.Info("received message", "chars", len(message))

	if p.retrier == nil || !p.retrier.Configured() {
		metrics.ChatReplies.WithLabelValues("error").Inc()
		return Reply{}, llm.ErrNotConfigured
	}

	text, err := p.retrier.Complete(ctx, llm.Request{
		Purpose:     "chat",
		System:      prompts.ChatSystem(),
		Prompt:      message,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err == nil {
		metrics.ChatReplies.WithLabelValues("ai").Inc()
		return Reply{Text: text}, nil
	}

	if p.mode == model.ChatStrict || errors.Is(err, llm.ErrNotConfigured) {
		metrics.ChatReplies.WithLabelValues("error").Inc()
		return Reply{}, err
	}

	p.logger.Warn("using keyword fallback reply", "error", err)
	metrics.ChatReplies.WithLabelValues("fallback").Inc()
	return Reply{Text: FallbackReply(message), Fallback: true}, nil
}

// topic pairs trigger keywords with a canned answer. Order is priority.
type topic struct {
	name     string
	keywords []string
	reply    string
}

var topics = []topic{
	{
		name:     "parental",
		keywords: []string{"parent", "mother", "father", "family", "mom", "dad", "guardian", "home support"},
		reply: `**Parental involvement** is one of the strongest environmental predictors of academic success.

- Ask about the school day regularly and listen actively
- Set a consistent homework time and a quiet place to work
- Stay in touch with teachers and attend school meetings
- Show that learning is valued by reading and learning together

Parents do not need advanced degrees to help: interest and encouragement matter most. What part of family support would you like to explore?`,
	},
	{
		name:     "nutrition",
		keywords: []string{"nutrition", "food", "diet", "eat", "breakfast", "meal", "hydrat", "sugar"},
		reply: `**Nutrition** directly affects concentration, memory and energy in class.

- Start the day with a balanced breakfast that includes protein
- Keep regular meal times and healthy snacks for study sessions
- Drink enough water; mild dehydration reduces focus
- Limit sugary drinks that cause energy crashes

Would you like ideas for simple study-friendly meals?`,
	},
	{
		name:     "mental",
		keywords: []string{"stress", "anxiety", "anxious", "mental", "depress", "sleep", "worry", "overwhelm", "burnout", "emotion"},
		reply: `**Mental health and wellbeing** shape how well students can learn and remember.

- Protect 8 to 10 hours of sleep on school nights
- Break big tasks into small steps to reduce overwhelm
- Build in short breaks and physical activity
- Talk to a trusted adult or school counselor when stress builds up

Which situations tend to cause the most stress right now?`,
	},
	{
		name:     "social",
		keywords: []string{"friend", "peer", "social", "bully", "relationship", "going out", "classmate", "dating"},
		reply: `**Social relationships** influence motivation, attendance and self-confidence.

- Encourage friendships with peers who value school
- Balance time out with a predictable study routine
- Join clubs or activities that build positive connections
- Address bullying early with the school

What social situation would you like to talk through?`,
	},
	{
		name:     "environment",
		keywords: []string{"environment", "room", "noise", "quiet", "light", "desk", "space", "internet", "distraction", "phone"},
		reply: `**The physical learning environment** makes focused study much easier.

- Use a dedicated, well-lit space with a clear desk
- Reduce noise and keep phones out of reach while studying
- Keep materials organized so starting is easy
- Use libraries or school spaces if home is crowded

What does the current study space look like?`,
	},
}

const genericReply = `I specialize in environmental factors that impact student performance. I'd be happy to discuss how parental involvement, nutrition, mental health, social factors or the study environment affect academic success.

Our AI assistant is temporarily unavailable, so this is a general answer. Please try again shortly for a personalized response.`

// FallbackReply picks a canned answer by scanning the lower-cased message
// for topic keywords in priority order.
func FallbackReply(message string) string {
	lower := strings.ToLower(message)
	for _, t := range topics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.reply
			}
		}
	}
	return genericReply
}
