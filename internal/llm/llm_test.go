package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeCompleter struct {
	responses []string
	errs      []error
	calls     int
	last      Request
}

func (f *fakeCompleter) Complete(_ context.Context, req Request) (string, error) {
	i := f.calls
	f.calls++
	f.last = req
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no more responses")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKeyConfigured(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{PlaceholderKey, false},
		{"gsk_0123456789abcdefghij", true},
	}
	for _, tt := range tests {
		if got := KeyConfigured(tt.key); got != tt.want {
			t.Errorf("KeyConfigured(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestRetrierNotConfigured(t *testing.T) {
	r := NewRetrier(nil, 3, discardLogger())
	if r.Configured() {
		t.Error("expected Configured() to be false")
	}
	_, err := r.Complete(context.Background(), Request{Purpose: "chat"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRetrierSucceedsAfterFailures(t *testing.T) {
	fake := &fakeCompleter{
		errs:      []error{errors.New("timeout"), errors.New("502")},
		responses: []string{"", "", "hello"},
	}
	r := NewRetrier(fake, 3, discardLogger())

	got, err := r.Complete(context.Background(), Request{Purpose: "chat", Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q, want hello", got)
	}
	if fake.calls != 3 {
		t.Errorf("expected 3 calls, got %d", fake.calls)
	}
	if fake.last.Prompt != "hi" {
		t.Errorf("request not forwarded: %+v", fake.last)
	}
}

func TestRetrierStopsOnFirstSuccess(t *testing.T) {
	fake := &fakeCompleter{responses: []string{"first"}}
	r := NewRetrier(fake, 3, discardLogger())

	if _, err := r.Complete(context.Background(), Request{}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("expected 1 call, got %d", fake.calls)
	}
}

func TestRetrierBounded(t *testing.T) {
	boom := errors.New("boom")
	fake := &fakeCompleter{errs: []error{boom, boom, boom, boom, boom}}
	r := NewRetrier(fake, 3, discardLogger())

	_, err := r.Complete(context.Background(), Request{Purpose: "analysis"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected last error in chain, got %v", err)
	}
	if fake.calls != 3 {
		t.Errorf("expected exactly 3 calls, got %d", fake.calls)
	}
	if got := Cause(err); got != boom {
		t.Errorf("Cause() = %v, want %v", got, boom)
	}
}

func TestCause(t *testing.T) {
	plain := errors.New("plain")
	if got := Cause(plain); got != plain {
		t.Errorf("Cause(plain) = %v", got)
	}
	if got := Cause(ErrNotConfigured); got != ErrNotConfigured {
		t.Errorf("Cause(ErrNotConfigured) = %v", got)
	}
	if got := Cause(nil); got != nil {
		t.Errorf("Cause(nil) = %v", got)
	}
}

func TestRetrierAttemptsBound(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultAttempts},
		{-2, DefaultAttempts},
		{1, 1},
		{2, 2},
		{3, 3},
		{50, DefaultAttempts},
	}
	for _, tt := range tests {
		r := NewRetrier(&fakeCompleter{}, tt.in, nil)
		if r.Attempts() != tt.want {
			t.Errorf("NewRetrier(%d).Attempts() = %d, want %d", tt.in, r.Attempts(), tt.want)
		}
	}
}

func TestRetrierNeverExceedsBound(t *testing.T) {
	fake := &fakeCompleter{}
	r := NewRetrier(fake, 50, discardLogger())

	if _, err := r.Complete(context.Background(), Request{Purpose: "chat"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if fake.calls != DefaultAttempts {
		t.Errorf("calls = %d, want %d", fake.calls, DefaultAttempts)
	}
}

func TestRetrierCancelledContext(t *testing.T) {
	fake := &fakeCompleter{responses: []string{"never"}}
	r := NewRetrier(fake, 3, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Complete(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
	if fake.calls != 0 {
		t.Errorf("expected no calls, got %d", fake.calls)
	}
}
