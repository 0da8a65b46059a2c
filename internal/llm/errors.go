package llm

import "errors"

// Sentinel errors for chat completion calls.
var (
	// ErrNotConfigured means no API key was provided, so no client exists.
	ErrNotConfigured = errors.New("AI service is not configured")
	// ErrUnavailable means every attempt against the service failed.
	ErrUnavailable = errors.New("AI service is currently unavailable")
	// ErrEmptyResponse means the service answered without any choices.
	ErrEmptyResponse = errors.New("LLM returned no choices")
)

// Cause returns the failure behind an ErrUnavailable error, or err itself
// when it does not wrap one.
func Cause(err error) error {
	u, ok := err.(interface{ Unwrap() []error })
	if !ok || !errors.Is(err, ErrUnavailable) {
		return err
	}
	for _, e := range u.Unwrap() {
		if !errors.Is(e, ErrUnavailable) {
			return e
		}
	}
	return err
}
