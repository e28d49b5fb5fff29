package langid

import (
	"context"
	"errors"
)

// ErrUnknownProvider is returned by New for an unrecognised provider name
var ErrUnknownProvider = errors.New("unknown language identification provider")

// Identifier defines the interface for language identification services
type Identifier interface {
	// Name returns the identifier name
	Name() string

	// Identify returns the best-guess language of text. A nil result with a
	// nil error is an abstention.
	Identify(ctx context.Context, text string) (*Result, error)
}

// Result is a positive identification
type Result struct {
	// Label is the ISO 639-3 code returned by the service
	Label string `json:"label"`

	// Score is the confidence of Label
	Score float64 `json:"score"`

	// Source identifies the model that produced the score
	Source string `json:"source"`

	// Voting names the method used to combine model verdicts
	Voting string `json:"voting"`
}

// CacheStats reports the lookup counts of the result cache in the decorator
// chain of id. ok is false when no layer of id is cached.
func CacheStats(id Identifier) (hits, misses int64, ok bool) {
	for id != nil {
		if c, cached := id.(*Cached); cached {
			return c.Stats()
		}
		w, wraps := id.(interface{ Unwrap() Identifier })
		if !wraps {
			break
		}
		id = w.Unwrap()
	}
	return 0, 0, false
}
