package completion

import (
	"context"
	"fmt"
	"time"
)

// Kind selects a backend implementation.
type Kind string

const (
	KindRemote Kind = "remote"
	KindLocal  Kind = "local"
)

// IsValid reports whether k names a known backend.
func (k Kind) IsValid() bool {
	switch k {
	case KindRemote, KindLocal:
		return true
	}
	return false
}

// Kinds returns every supported backend kind.
func Kinds() []Kind {
	return []Kind{KindRemote, KindLocal}
}

// Options configures the backend built by New.
type Options struct {
	Kind    Kind
	Timeout time.Duration

	RemoteAPIKey string
	RemoteModel  string

	LocalURL   string
	LocalModel string
}

// New builds the backend selected by opts.Kind.
func New(ctx context.Context, opts Options) (Completer, error) {
	switch opts.Kind {
	case KindRemote:
		return NewGemini(ctx, opts.RemoteAPIKey, opts.RemoteModel, opts.Timeout)
	case KindLocal:
		return NewOllama(opts.LocalURL, opts.LocalModel, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported backend type %q (want one of %v)", opts.Kind, Kinds())
	}
}
