package adapters

import (
	"errors"
	"log/slog"
	"reflect"
	"testing"

	"github.com/ppiankov/gncorpora/internal/extract"
	"github.com/ppiankov/gncorpora/internal/model"
)

func collect(t *testing.T, a Adapter, data string, rule model.ExtractionRule) []extract.Triple {
	t.Helper()
	seq, err := a.Extract([]byte(data), rule)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	var out []extract.Triple
	for tr := range seq {
		out = append(out, tr)
	}
	return out
}

func texts(triples []extract.Triple) []string {
	var out []string
	for _, tr := range triples {
		out = append(out, tr.Text)
	}
	return out
}

func TestTabularAdapter_NonStringCells(t *testing.T) {
	a := NewTabularAdapter(slog.Default())
	got := collect(t, a, "text\na b c\n42\nd\n", model.ExtractionRule{TextColumn: "text"})

	if want := []string{"a b c", "d"}; !reflect.DeepEqual(texts(got), want) {
		t.Errorf("got %q, want %q", texts(got), want)
	}
	for _, tr := range got {
		if tr.Source != model.Unknown || tr.URL != model.Unknown {
			t.Errorf("expected unknown provenance, got %+v", tr)
		}
	}
}

func TestTabularAdapter_NAValues(t *testing.T) {
	a := NewTabularAdapter(slog.Default())
	got := collect(t, a, "text,source\nNaN,x\n,y\n  ,z\nnull,w\nJaha,web\n-1.5e3,v\n", model.ExtractionRule{
		TextColumn:   "text",
		SourceColumn: "source",
	})

	if len(got) != 1 || got[0].Text != "Jaha" || got[0].Source != "web" {
		t.Errorf("unexpected triples: %+v", got)
	}
}

func TestTabularAdapter_BareQuotes(t *testing.T) {
	a := NewTabularAdapter(slog.Default())
	data := "text,source\nHe'i \"jaha\" ko'ã,web\n\"Che, ndéve\",mc4\n"

	got := collect(t, a, data, model.ExtractionRule{TextColumn: "text", SourceColumn: "source"})
	if want := []string{`He'i "jaha" ko'ã`, "Che, ndéve"}; !reflect.DeepEqual(texts(got), want) {
		t.Errorf("got %q, want %q", texts(got), want)
	}
}

func TestTabularAdapter_ProvenanceColumns(t *testing.T) {
	a := NewTabularAdapter(slog.Default())
	data := "text,source,url\n\"Che, ndéve\",mc4,https://example.com/a\nJaha,NA,\n"
	got := collect(t, a, data, model.ExtractionRule{TextColumn: "text", SourceColumn: "source", URLColumn: "url"})

	want := []extract.Triple{
		{Text: "Che, ndéve", Source: "mc4", URL: "https://example.com/a"},
		{Text: "Jaha", Source: model.Unknown, URL: model.Unknown},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestTabularAdapter_MissingTextColumn(t *testing.T) {
	a := NewTabularAdapter(slog.Default())
	_, err := a.Extract([]byte("gn,es\na,b\n"), model.ExtractionRule{TextColumn: "text"})
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestTabularAdapter_EmptyFile(t *testing.T) {
	a := NewTabularAdapter(slog.Default())
	if got := collect(t, a, "", model.ExtractionRule{TextColumn: "text"}); len(got) != 0 {
		t.Errorf("expected no triples, got %+v", got)
	}
}

func TestTabularAdapter_StrictHeaderless(t *testing.T) {
	a := NewTabularAdapter(slog.Default())
	rule := model.ExtractionRule{
		Separator:  "\t",
		Columns:    []string{"id", "lang", "text"},
		TextColumn: "text",
		Strict:     true,
	}
	got := collect(t, a, "1\tgrn\tMba'éichapa\n2\tgrn\n3\tgrn\tJaha\textra\n4\tgrn\tHa'e\n", rule)

	if want := []string{"Mba'éichapa", "Ha'e"}; !reflect.DeepEqual(texts(got), want) {
		t.Errorf("got %q, want %q", texts(got), want)
	}
}

func TestTabularAdapter_SanitizedFanOut(t *testing.T) {
	a := NewTabularAdapter(slog.Default())
	rule := model.ExtractionRule{
		Separator:    "\t",
		TextColumn:   "question",
		SourceColumn: "source",
		UniqueColumn: "context",
		Sanitize:     true,
	}
	data := "question\tcontext\tsource\n" +
		"\"Mávapa\"\t\tctx A\twiki\n" +
		"Mba'épa\tctx A\twiki\n" +
		"Moõpa\tctx B\tnews\n"

	got := collect(t, a, data, rule)

	want := []extract.Triple{
		{Text: "Mávapa", Source: "wiki", URL: model.Unknown},
		{Text: "ctx A", Source: "wiki", URL: model.Unknown},
		{Text: "Mba'épa", Source: "wiki", URL: model.Unknown},
		{Text: "Moõpa", Source: "news", URL: model.Unknown},
		{Text: "ctx B", Source: "news", URL: model.Unknown},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestTabularAdapter_InvalidSeparator(t *testing.T) {
	a := NewTabularAdapter(slog.Default())
	if _, err := a.Extract([]byte("a\n"), model.ExtractionRule{Separator: "||", TextColumn: "a"}); err == nil {
		t.Error("expected error for multi-character separator")
	}
}

func TestLineAdapter_Prefix(t *testing.T) {
	a := NewLineAdapter(slog.Default())
	got := collect(t, a, "\n  \nhello world\n#skip-me\n", model.ExtractionRule{LinePrefix: "#"})

	if want := []string{"#skip-me"}; !reflect.DeepEqual(texts(got), want) {
		t.Errorf("got %q, want %q", texts(got), want)
	}
}

func TestLineAdapter_Plain(t *testing.T) {
	a := NewLineAdapter(slog.Default())
	got := collect(t, a, "\ufeff  Che  \r\n\r\nNde\n", model.ExtractionRule{})

	if want := []string{"Che", "Nde"}; !reflect.DeepEqual(texts(got), want) {
		t.Errorf("got %q, want %q", texts(got), want)
	}
}

func TestLineAdapter_Field(t *testing.T) {
	a := NewLineAdapter(slog.Default())
	rule := model.ExtractionRule{LinePrefix: "# text", FieldSeparator: " = ", FieldIndex: 1}
	data := "# sent_id = 1\n# text = Che ha'e\n1\tChe\tche\n# text = \n# text = Nde = upe\n"

	got := collect(t, a, data, rule)
	if want := []string{"Che ha'e", "Nde"}; !reflect.DeepEqual(texts(got), want) {
		t.Errorf("got %q, want %q", texts(got), want)
	}
}

func TestMarkupAdapter(t *testing.T) {
	a := NewMarkupAdapter()
	data := `<?xml version="1.0" encoding="utf-8"?>
<document>
  <s id="1">Ñande <w>róga</w>
     porã</s>
  <s id="2">   </s>
  <s id="3"/>
  <s id="4">Jaha &amp; jajevy</s>
</document>`

	got := collect(t, a, data, model.ExtractionRule{})
	if want := []string{"Ñande róga porã", "Jaha & jajevy"}; !reflect.DeepEqual(texts(got), want) {
		t.Errorf("got %q, want %q", texts(got), want)
	}
}

func TestMarkupAdapter_Latin1(t *testing.T) {
	a := NewMarkupAdapter()
	data := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><d><s>`), 0xd1, 'a')
	data = append(data, []byte(`</s></d>`)...)

	seq, err := a.Extract(data, model.ExtractionRule{})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for tr := range seq {
		if tr.Text != "Ña" {
			t.Errorf("expected decoded text, got %q", tr.Text)
		}
	}
}

func TestMarkupAdapter_RuleEncoding(t *testing.T) {
	a := NewMarkupAdapter()
	rule := model.ExtractionRule{Encoding: "latin1"}

	// No prolog: the rule's encoding applies
	got := collect(t, a, "<d><s>Ko\xe1g\xe3</s></d>", rule)
	if want := []string{"Koágã"}; !reflect.DeepEqual(texts(got), want) {
		t.Errorf("got %q, want %q", texts(got), want)
	}

	// A declared encoding wins over the rule
	got = collect(t, a, `<?xml version="1.0" encoding="UTF-8"?><d><s>Koágã</s></d>`, rule)
	if want := []string{"Koágã"}; !reflect.DeepEqual(texts(got), want) {
		t.Errorf("got %q, want %q", texts(got), want)
	}
}

func TestMarkupAdapter_Empty(t *testing.T) {
	a := NewMarkupAdapter()
	if got := collect(t, a, "", model.ExtractionRule{}); len(got) != 0 {
		t.Errorf("expected no triples, got %+v", got)
	}
	if got := collect(t, a, "<d><p>no sentences</p></d>", model.ExtractionRule{}); len(got) != 0 {
		t.Errorf("expected no triples, got %+v", got)
	}
}

func TestMarkupAdapter_Malformed(t *testing.T) {
	a := NewMarkupAdapter()
	if _, err := a.Extract([]byte("<d><s>open</d>"), model.ExtractionRule{}); err == nil {
		t.Error("expected parse error for malformed document")
	}
}

func TestJSONLAdapter(t *testing.T) {
	a := NewJSONLAdapter(slog.Default())
	data := `{"flores_passage":"x","question":"y"}

not json
{"flores_passage":"z","question":7}
`
	got := collect(t, a, data, model.ExtractionRule{Fields: []string{"flores_passage", "question"}})

	if want := []string{"x", "y", "z"}; !reflect.DeepEqual(texts(got), want) {
		t.Errorf("got %q, want %q", texts(got), want)
	}
}

func TestRouter_Resolve(t *testing.T) {
	r := NewRouter(model.DefaultConfig(), nil)

	tests := []struct {
		corpus  string
		file    string
		adapter string
		sep     string
		err     error
	}{
		{"jojajovai", "train.csv", "tabular", ",", nil},
		{"tatoeba", "sentences.tsv", "tabular", "\t", nil},
		{"americasnlp", "dev.gn", "line", "", nil},
		{"ud_guarani", "gn_old.conllu", "line", "", nil},
		{"opus", "gn.xml", "markup", "", nil},
		{"belebele", "grn_Latn.jsonl", "jsonl", "", nil},
		{"OPUS", "gn.xml", "markup", "", nil},
		{"americasnlp", "README.txt", "", "", ErrUnsupported},
		{"culturalx", "part-0.parquet", "", "", ErrUnsupported},
		{"mystery", "notes.txt", "", "", ErrUnsupported},
		{"mystery", "data.csv", "", "", ErrUnknownCorpus},
		{"opus", "gn.csv", "", "", ErrFormatMismatch},
	}

	for _, tt := range tests {
		route, err := r.Resolve(tt.corpus, tt.file)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%s/%s: expected %v, got %v", tt.corpus, tt.file, tt.err, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s/%s: unexpected error: %v", tt.corpus, tt.file, err)
			continue
		}
		if route.Adapter.Name() != tt.adapter {
			t.Errorf("%s/%s: expected %s adapter, got %s", tt.corpus, tt.file, tt.adapter, route.Adapter.Name())
		}
		if route.Rule.Separator != tt.sep {
			t.Errorf("%s/%s: expected separator %q, got %q", tt.corpus, tt.file, tt.sep, route.Rule.Separator)
		}
		if route.Rule.Language != "grn" || route.Rule.Script != "Latn" {
			t.Errorf("%s/%s: expected language defaults filled, got %+v", tt.corpus, tt.file, route.Rule)
		}
	}
}
