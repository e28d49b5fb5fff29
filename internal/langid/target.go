package langid

import "context"

// Target only passes identifications of one language and abstains on the
// rest. The pipeline accepts a single target language per corpus.
type Target struct {
	next Identifier
	code string
}

// NewTarget wraps next with a gate for code
func NewTarget(next Identifier, code string) *Target {
	return &Target{next: next, code: code}
}

// Name returns the wrapped identifier name
func (t *Target) Name() string {
	return t.next.Name()
}

// Unwrap returns the wrapped identifier
func (t *Target) Unwrap() Identifier {
	return t.next
}

// Identify abstains unless next returns the target label
func (t *Target) Identify(ctx context.Context, text string) (*Result, error) {
	res, err := t.next.Identify(ctx, text)
	if err != nil || res == nil {
		return nil, err
	}
	if res.Label != t.code {
		return nil, nil
	}
	return res, nil
}
