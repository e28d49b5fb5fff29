package langid

import (
	"context"
	"fmt"

	"github.com/ppiankov/gncorpora/internal/worker"
)

// Limited paces calls to next through a shared limiter
type Limited struct {
	next    Identifier
	limiter *worker.Limiter
}

// NewLimited wraps next with a rate limit
func NewLimited(next Identifier, limiter *worker.Limiter) *Limited {
	return &Limited{next: next, limiter: limiter}
}

// Name returns the wrapped identifier name
func (l *Limited) Name() string {
	return l.next.Name()
}

// Unwrap returns the wrapped identifier
func (l *Limited) Unwrap() Identifier {
	return l.next
}

// Identify waits for a token, then calls next
func (l *Limited) Identify(ctx context.Context, text string) (*Result, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return l.next.Identify(ctx, text)
}
