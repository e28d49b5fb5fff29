package annotate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/gncorpora/internal/langid"
	"github.com/ppiankov/gncorpora/internal/model"
)

// Input is one extracted text with its provenance and language defaults
type Input struct {
	Text       string
	Corpus     string
	CorpusFile string
	Source     string
	URL        string
	Language   string // Used when identification abstains
	Script     string
}

// Annotator turns extracted texts into annotated records
type Annotator struct {
	tokenizer  Tokenizer
	identifier langid.Identifier
}

// NewAnnotator creates an annotator over the given services
func NewAnnotator(tokenizer Tokenizer, identifier langid.Identifier) *Annotator {
	if tokenizer == nil {
		tokenizer = NewRuneTokenizer()
	}
	if identifier == nil {
		identifier = langid.None{}
	}
	return &Annotator{tokenizer: tokenizer, identifier: identifier}
}

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// Annotate computes word counts and identifies the language of in.Text
func (a *Annotator) Annotate(ctx context.Context, in Input) (model.AnnotatedRecord, error) {
	withPunct, withoutPunct := CountWords(a.tokenizer, in.Text)

	rec := model.AnnotatedRecord{
		Text:                     in.Text,
		Corpus:                   in.Corpus,
		CorpusFile:               in.CorpusFile,
		Source:                   in.Source,
		URL:                      in.URL,
		Language:                 in.Language,
		LanguageScript:           in.Script,
		NumWordsSplit:            len(strings.Fields(in.Text)),
		NumWordsPunctTokenized:   withPunct,
		NumWordsNoPunctTokenized: withoutPunct,
		NumChars:                 utf8.RuneCountInString(in.Text),
	}

	res, err := a.identifier.Identify(ctx, lineBreaks.Replace(in.Text))
	if err != nil {
		return model.AnnotatedRecord{}, fmt.Errorf("identify language: %w", err)
	}
	if res != nil {
		rec.Language = res.Label
		rec.LanguageScore = res.Score
		rec.LanguageScoreSource = &res.Source
		rec.LanguageIdentificationMethod = &res.Voting
	}

	return rec, nil
}
