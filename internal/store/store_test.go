package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/gncorpora/internal/model"
)

func TestLayout(t *testing.T) {
	l := Layout{Root: "out"}
	if got := l.Records("opus"); got != filepath.Join("out", "opus", "opus.jsonl") {
		t.Errorf("unexpected records path: %s", got)
	}
	if got := l.Report("opus"); got != filepath.Join("out", "opus", "opus_report.json") {
		t.Errorf("unexpected report path: %s", got)
	}
}

func TestRecordStore_AppendAndOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c", "c.jsonl")
	s := NewRecordStore(path)

	recs := []model.AnnotatedRecord{{Text: "a"}, {Text: "b"}}
	if err := s.Write(recs, Append); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := s.Write(recs[:1], Append); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if n, _ := s.Count(); n != 3 {
		t.Errorf("expected 3 lines after append, got %d", n)
	}

	if err := s.Write(recs[:1], Overwrite); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if n, _ := s.Count(); n != 1 {
		t.Errorf("expected 1 line after overwrite, got %d", n)
	}
}

func TestRecordStore_EmptyBatchCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.jsonl")
	if err := NewRecordStore(path).Write(nil, Append); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}

func TestRecordStore_NoHTMLEscaping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.jsonl")
	rec := model.AnnotatedRecord{Text: "Mba'éichapa <ndéve> & ñe'ẽ"}
	if err := NewRecordStore(path).Write([]model.AnnotatedRecord{rec}, Append); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !bytes.Contains(data, []byte("<ndéve> & ñe'ẽ")) {
		t.Errorf("expected literal text, got %s", data)
	}
	if !bytes.Contains(data, []byte(`"language_score_source":null`)) {
		t.Errorf("expected null auxiliary field, got %s", data)
	}
}

func TestCountLines(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n", 2},
	}
	for i, tt := range tests {
		path := filepath.Join(dir, strings.Repeat("f", i+1))
		_ = os.WriteFile(path, []byte(tt.content), 0644)
		got, err := CountLines(path)
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("CountLines(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}

func TestSaveReport_Merges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c", "c_report.json")

	if _, err := SaveReport(path, model.CorpusReport{NumDocs: 3, NumChars: 30}, nil); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	merged, err := SaveReport(path, model.CorpusReport{NumDocs: 5, NumChars: 10}, nil)
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if merged.NumDocs != 8 || merged.AvgChars != 5 {
		t.Errorf("unexpected merged report: %+v", merged)
	}

	data, _ := os.ReadFile(path)
	if !bytes.Contains(data, []byte("\n    \"num_docs\": 8")) {
		t.Errorf("expected 4-space indented report, got %s", data)
	}

	var onDisk model.CorpusReport
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("invalid report JSON: %v", err)
	}
	if onDisk != merged {
		t.Errorf("disk report %+v differs from returned %+v", onDisk, merged)
	}
}

func TestLoadReport_Missing(t *testing.T) {
	r, err := LoadReport(filepath.Join(t.TempDir(), "none.json"))
	if err != nil || r != nil {
		t.Errorf("expected nil, nil for missing report, got %v, %v", r, err)
	}
}

func TestPrepare(t *testing.T) {
	l := Layout{Root: t.TempDir()}

	// Fresh corpus
	ok, err := l.Prepare("c", false)
	if err != nil || !ok {
		t.Fatalf("expected fresh corpus to proceed, got %v, %v", ok, err)
	}

	_ = NewRecordStore(l.Records("c")).Write([]model.AnnotatedRecord{{Text: "x"}}, Append)
	_, _ = SaveReport(l.Report("c"), model.CorpusReport{NumDocs: 1}, nil)

	// Existing report, no overwrite: skip and leave files alone
	ok, err = l.Prepare("c", false)
	if err != nil || ok {
		t.Fatalf("expected skip, got %v, %v", ok, err)
	}
	if _, err := os.Stat(l.Records("c")); err != nil {
		t.Error("record store should be untouched on skip")
	}

	// Overwrite: both files removed
	ok, err = l.Prepare("c", true)
	if err != nil || !ok {
		t.Fatalf("expected overwrite to proceed, got %v, %v", ok, err)
	}
	for _, p := range []string{l.Records("c"), l.Report("c")} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s removed", p)
		}
	}
}

func TestPrepare_StaleRecordsWithoutReport(t *testing.T) {
	l := Layout{Root: t.TempDir()}
	_ = NewRecordStore(l.Records("c")).Write([]model.AnnotatedRecord{{Text: "x"}}, Append)

	ok, err := l.Prepare("c", false)
	if err != nil || !ok {
		t.Fatalf("expected proceed, got %v, %v", ok, err)
	}
	if _, err := os.Stat(l.Records("c")); !os.IsNotExist(err) {
		t.Error("expected stale record store removed")
	}
}
