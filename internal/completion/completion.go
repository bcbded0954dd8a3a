// Package completion abstracts "send a prompt, get text back" over the
// text-generation services spendlens can talk to.
package completion

import (
	"context"
	"errors"
	"time"
)

// ErrBackendUnavailable is wrapped by every failure to obtain a completion:
// transport errors, non-success statuses and client setup failures.
var ErrBackendUnavailable = errors.New("completion backend unavailable")

//go:generate mockgen -source=completion.go -destination=completion_mock.go -package=completion
type Completer interface {
	// Complete sends prompt and returns the backend's text verbatim.
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f(ctx, prompt).
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// withTimeout bounds a single backend call. A zero timeout leaves ctx as is.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
