package langid

import "context"

// None abstains on every text. Records fall back to the corpus defaults.
type None struct{}

// Name returns the identifier name
func (None) Name() string {
	return "none"
}

// Identify always abstains
func (None) Identify(context.Context, string) (*Result, error) {
	return nil, nil
}
