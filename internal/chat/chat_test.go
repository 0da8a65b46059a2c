package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/pavelanni/eduimpact/internal/llm"
	"github.com/pavelanni/eduimpact/internal/model"
)

type stubCompleter struct {
	text  string
	err   error
	calls int
	last  llm.Request
}

func (s *stubCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	s.calls++
	s.last = req
	return s.text, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProxy(c llm.Completer, mode model.ChatMode) *Proxy {
	return New(llm.NewRetrier(c, 3, discardLogger()), mode, discardLogger())
}

func TestReplyValidation(t *testing.T) {
	stub := &stubCompleter{text: "hi"}
	p := newProxy(stub, model.ChatLenient)

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := p.Reply(context.Background(), msg)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Reply(%q): expected ErrValidation, got %v", msg, err)
		}
	}
	if stub.calls != 0 {
		t.Errorf("expected no calls, got %d", stub.calls)
	}
}

func TestReplyNotConfigured(t *testing.T) {
	for _, mode := range []model.ChatMode{model.ChatStrict, model.ChatLenient} {
		p := New(llm.NewRetrier(nil, 3, discardLogger()), mode, discardLogger())
		reply, err := p.Reply(context.Background(), "How does sleep affect grades?")
		if !errors.Is(err, llm.ErrNotConfigured) {
			t.Errorf("mode %s: expected ErrNotConfigured, got %v", mode, err)
		}
		if reply.Text != "" {
			t.Errorf("mode %s: expected empty reply on error", mode)
		}
	}
}

func TestReplySuccess(t *testing.T) {
	stub := &stubCompleter{text: "Eat breakfast."}
	p := newProxy(stub, model.ChatStrict)

	reply, err := p.Reply(context.Background(), "  What should my child eat?  ")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.Text != "Eat breakfast." || reply.Fallback {
		t.Errorf("unexpected reply %+v", reply)
	}
	if stub.last.Prompt != "What should my child eat?" {
		t.Errorf("message not trimmed: %q", stub.last.Prompt)
	}
	if !strings.Contains(stub.last.System, "EduImpactBot") {
		t.Error("system prompt not sent")
	}
	if stub.last.MaxTokens != 500 {
		t.Errorf("MaxTokens = %d, want 500", stub.last.MaxTokens)
	}
}

func TestReplyExhaustedStrict(t *testing.T) {
	stub := &stubCompleter{err: errors.New("503")}
	p := newProxy(stub, model.ChatStrict)

	_, err := p.Reply(context.Background(), "help with stress")
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if stub.calls != 3 {
		t.Errorf("expected 3 calls, got %d", stub.calls)
	}
}

func TestReplyExhaustedLenient(t *testing.T) {
	stub := &stubCompleter{err: errors.New("503")}
	p := newProxy(stub, "")

	if p.Mode() != model.ChatLenient {
		t.Fatalf("default mode = %q, want lenient", p.Mode())
	}
	reply, err := p.Reply(context.Background(), "My son skips breakfast")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if !reply.Fallback {
		t.Error("expected fallback reply")
	}
	if !strings.Contains(reply.Text, "Nutrition") {
		t.Errorf("expected nutrition reply, got %q", reply.Text)
	}
	if stub.calls != 3 {
		t.Errorf("expected 3 calls, got %d", stub.calls)
	}
}

func TestFallbackReplyPriority(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"parental", "How can a PARENT help?", "Parental involvement"},
		{"nutrition", "best food before exams", "Nutrition"},
		{"mental", "I feel so much stress", "Mental health"},
		{"social", "my friends distract me", "Social relationships"},
		{"environment", "my room is too noisy", "physical learning environment"},
		{"generic", "what is the capital of France", "I specialize in environmental factors"},
		{"parental beats nutrition", "my mother cooks unhealthy food", "Parental involvement"},
		{"nutrition beats mental", "diet and stress", "Nutrition"},
		{"mental beats social", "anxiety around friends", "Mental health"},
		{"social beats environment", "a quiet place with peers", "Social relationships"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackReply(tt.msg)
			if !strings.Contains(got, tt.want) {
				t.Errorf("FallbackReply(%q) = %q, want it to contain %q", tt.msg, got, tt.want)
			}
		})
	}
}
