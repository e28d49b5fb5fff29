package annotate

import (
	"strings"
	"unicode"
)

// Token is one tokenizer output unit
type Token struct {
	Text    string
	IsPunct bool
}

// Tokenizer splits text into tokens flagged as punctuation or not
type Tokenizer interface {
	Tokenize(text string) []Token
}

// RuneTokenizer is a language-agnostic tokenizer: whitespace splitting
// followed by peeling punctuation off both ends of every chunk. It needs no
// model, which keeps word counts reproducible across machines.
type RuneTokenizer struct{}

// NewRuneTokenizer creates a new rune tokenizer
func NewRuneTokenizer() *RuneTokenizer {
	return &RuneTokenizer{}
}

// Tokenize splits text into tokens
func (t *RuneTokenizer) Tokenize(text string) []Token {
	var tokens []Token

	for _, chunk := range strings.Fields(text) {
		runes := []rune(chunk)

		start := 0
		for start < len(runes) && isPunct(runes[start]) {
			start++
		}
		end := len(runes)
		for end > start && isPunct(runes[end-1]) {
			end--
		}

		// Chunk made only of punctuation: one token per mark
		if start == end {
			for _, r := range runes {
				tokens = append(tokens, Token{Text: string(r), IsPunct: true})
			}
			continue
		}

		for _, r := range runes[:start] {
			tokens = append(tokens, Token{Text: string(r), IsPunct: true})
		}
		tokens = append(tokens, Token{Text: string(runes[start:end])})
		for _, r := range runes[end:] {
			tokens = append(tokens, Token{Text: string(r), IsPunct: true})
		}
	}

	return tokens
}

// isPunct reports whether r is punctuation or a symbol. The Guarani puso
// (glottal stop) is written with apostrophe-like marks and belongs to words.
func isPunct(r rune) bool {
	switch r {
	case '\'', '’', 'ʼ', '‘':
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// CountWords returns the number of tokens with and without punctuation
func CountWords(t Tokenizer, text string) (withPunct, withoutPunct int) {
	for _, tok := range t.Tokenize(text) {
		withPunct++
		if !tok.IsPunct {
			withoutPunct++
		}
	}
	return withPunct, withoutPunct
}
