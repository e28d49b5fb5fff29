package adapters

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"iter"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/ppiankov/gncorpora/internal/extract"
	"github.com/ppiankov/gncorpora/internal/model"
)

// sentenceElement is the leaf element whose text becomes a record
const sentenceElement = "s"

// MarkupAdapter extracts the text of every <s> element of an XML document
type MarkupAdapter struct{}

// NewMarkupAdapter creates a new markup adapter
func NewMarkupAdapter() *MarkupAdapter {
	return &MarkupAdapter{}
}

// Name returns the adapter name
func (a *MarkupAdapter) Name() string {
	return "markup"
}

// Format returns model.FormatMarkup
func (a *MarkupAdapter) Format() model.Format {
	return model.FormatMarkup
}

// Extract parses the whole document before yielding anything, so a
// malformed document fails as a unit. The encoding declared in the XML
// prolog wins over rule.Encoding.
func (a *MarkupAdapter) Extract(data []byte, rule model.ExtractionRule) (iter.Seq[extract.Triple], error) {
	if !declaresEncoding(data) {
		decoded, err := extract.Decode(data, rule.Encoding)
		if err != nil {
			return nil, err
		}
		data = decoded
	}

	texts, err := sentences(data)
	if err != nil {
		return nil, err
	}

	return func(yield func(extract.Triple) bool) {
		for _, text := range texts {
			if !yield(extract.Triple{Text: text, Source: model.Unknown, URL: model.Unknown}) {
				return
			}
		}
	}, nil
}

// declaresEncoding reports whether the document opens with an XML
// declaration naming its encoding
func declaresEncoding(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	data = bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		return false
	}
	end := bytes.Index(data, []byte("?>"))
	if end < 0 {
		return false
	}
	return bytes.Contains(data[:end], []byte("encoding"))
}

// sentences returns the whitespace-normalized text of each <s> element in
// document order. Nested <s> elements contribute to every open ancestor.
func sentences(data []byte) ([]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var found []*strings.Builder
	var open []*strings.Builder

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == sentenceElement {
				b := &strings.Builder{}
				found = append(found, b)
				open = append(open, b)
			}
		case xml.EndElement:
			if t.Name.Local == sentenceElement && len(open) > 0 {
				open = open[:len(open)-1]
			}
		case xml.CharData:
			for _, b := range open {
				b.Write(t)
			}
		}
	}

	texts := make([]string, 0, len(found))
	for _, b := range found {
		text := strings.Join(strings.Fields(b.String()), " ")
		if text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}
