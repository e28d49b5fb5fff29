package model

import "strings"

// Format names the shape of a raw corpus file
type Format string

const (
	FormatTabular Format = "tabular" // Delimited table (.csv, .tsv)
	FormatLine    Format = "line"    // One text per line
	FormatMarkup  Format = "markup"  // XML with <s> sentence elements
	FormatJSONL   Format = "jsonl"   // One JSON object per line
)

// Config is the complete gncorpora configuration
type Config struct {
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Language LanguageConfig `yaml:"language" mapstructure:"language"`
	LangID   LangIDConfig   `yaml:"langid" mapstructure:"langid"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`

	// Corpora is the extraction table, keyed by corpus identity
	Corpora map[string]ExtractionRule `yaml:"corpora" mapstructure:"corpora"`

	// Reconcile is the independent counting table used by verify. It is kept
	// separate from Corpora on purpose.
	Reconcile map[string]Expectation `yaml:"reconcile" mapstructure:"reconcile"`
}

// PathsConfig locates the raw and processed data roots
type PathsConfig struct {
	RawDir       string `yaml:"raw_dir" mapstructure:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir" mapstructure:"processed_dir"`
	MaxFileMB    int    `yaml:"max_file_mb" mapstructure:"max_file_mb"` // Raw files are read whole; larger ones fail
}

// LanguageConfig holds the target language defaults
type LanguageConfig struct {
	Code   string `yaml:"code" mapstructure:"code"`     // ISO 639-3
	Script string `yaml:"script" mapstructure:"script"` // ISO 15924
}

// LangIDConfig configures the language identification service
type LangIDConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // none, http, openai
	Endpoint          string  `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	APIKey            string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model             string  `yaml:"model,omitempty" mapstructure:"model"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	K                 int     `yaml:"k" mapstructure:"k"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`

	// Proxy settings, falling back to HTTP_PROXY/HTTPS_PROXY when empty
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig configures caching of identification results
type CacheConfig struct {
	Enabled          bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir              string `yaml:"dir" mapstructure:"dir"`
	MemoryTTLMinutes int    `yaml:"memory_ttl_minutes" mapstructure:"memory_ttl_minutes"`
	DiskTTLHours     int    `yaml:"disk_ttl_hours" mapstructure:"disk_ttl_hours"`
}

// OutputConfig controls the output writer
type OutputConfig struct {
	Overwrite bool `yaml:"overwrite" mapstructure:"overwrite"`
	Verbose   bool `yaml:"verbose" mapstructure:"verbose"`
}

// ExtractionRule describes how records are pulled out of one corpus
type ExtractionRule struct {
	Format Format `yaml:"format" mapstructure:"format"`

	// Tabular
	Separator    string   `yaml:"separator,omitempty" mapstructure:"separator"`
	Columns      []string `yaml:"columns,omitempty" mapstructure:"columns"` // Header for header-less files
	TextColumn   string   `yaml:"text_column,omitempty" mapstructure:"text_column"`
	SourceColumn string   `yaml:"source_column,omitempty" mapstructure:"source_column"`
	URLColumn    string   `yaml:"url_column,omitempty" mapstructure:"url_column"`
	UniqueColumn string   `yaml:"unique_column,omitempty" mapstructure:"unique_column"` // Fan-out column
	Strict       bool     `yaml:"strict,omitempty" mapstructure:"strict"`
	Sanitize     bool     `yaml:"sanitize,omitempty" mapstructure:"sanitize"`

	// Line-oriented
	Extensions     []string `yaml:"extensions,omitempty" mapstructure:"extensions"`
	LinePrefix     string   `yaml:"line_prefix,omitempty" mapstructure:"line_prefix"`
	FieldSeparator string   `yaml:"field_separator,omitempty" mapstructure:"field_separator"`
	FieldIndex     int      `yaml:"field_index,omitempty" mapstructure:"field_index"`

	// Line-JSON
	Fields []string `yaml:"fields,omitempty" mapstructure:"fields"`

	Encoding string `yaml:"encoding,omitempty" mapstructure:"encoding"` // Charset label, default UTF-8
	Language string `yaml:"language,omitempty" mapstructure:"language"` // Overrides Config.Language.Code
	Script   string `yaml:"script,omitempty" mapstructure:"script"`     // Overrides Config.Language.Script
}

// Expectation is the reconciliation engine's own description of how many
// records a corpus should produce
type Expectation struct {
	Format Format `yaml:"format" mapstructure:"format"`

	Separator    string   `yaml:"separator,omitempty" mapstructure:"separator"`
	Columns      []string `yaml:"columns,omitempty" mapstructure:"columns"`
	TextColumn   string   `yaml:"text_column,omitempty" mapstructure:"text_column"`
	UniqueColumn string   `yaml:"unique_column,omitempty" mapstructure:"unique_column"`
	Strict       bool     `yaml:"strict,omitempty" mapstructure:"strict"`
	Sanitize     bool     `yaml:"sanitize,omitempty" mapstructure:"sanitize"`

	Extensions     []string `yaml:"extensions,omitempty" mapstructure:"extensions"`
	LinePrefix     string   `yaml:"line_prefix,omitempty" mapstructure:"line_prefix"`
	FieldSeparator string   `yaml:"field_separator,omitempty" mapstructure:"field_separator"`
	FieldIndex     int      `yaml:"field_index,omitempty" mapstructure:"field_index"`

	Multiplier int    `yaml:"multiplier,omitempty" mapstructure:"multiplier"` // Records per JSON line
	Encoding   string `yaml:"encoding,omitempty" mapstructure:"encoding"`
}

// DefaultConfig returns the built-in configuration, including the Guarani
// corpus table
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			RawDir:       "data/raw",
			ProcessedDir: "data/processed",
			MaxFileMB:    2048,
		},
		Language: LanguageConfig{
			Code:   "grn",
			Script: "Latn",
		},
		LangID: LangIDConfig{
			Provider:          "none",
			Model:             "gpt-4o-mini",
			Timeout:           30,
			K:                 1,
			RequestsPerSecond: 20,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled:          true,
			Dir:              ".gncorpora/cache",
			MemoryTTLMinutes: 60,
			DiskTTLHours:     24 * 30,
		},
		Corpora: map[string]ExtractionRule{
			"jojajovai": {
				Format:       FormatTabular,
				TextColumn:   "gn",
				SourceColumn: "source",
			},
			"culturalx": {
				Format:       FormatTabular,
				TextColumn:   "text",
				SourceColumn: "source",
				URLColumn:    "url",
			},
			"tatoeba": {
				Format:     FormatTabular,
				Separator:  "\t",
				Columns:    []string{"id", "lang", "text"},
				TextColumn: "text",
				Strict:     true,
			},
			"gn_qa": {
				Format:       FormatTabular,
				Separator:    "\t",
				TextColumn:   "question",
				SourceColumn: "source",
				UniqueColumn: "context",
				Sanitize:     true,
			},
			"americasnlp": {
				Format:     FormatLine,
				Extensions: []string{".gn"},
			},
			"ud_guarani": {
				Format:         FormatLine,
				Extensions:     []string{".conllu"},
				LinePrefix:     "# text",
				FieldSeparator: " = ",
				FieldIndex:     1,
			},
			"opus": {
				Format: FormatMarkup,
			},
			"belebele": {
				Format: FormatJSONL,
				Fields: []string{"flores_passage", "question"},
			},
		},
		Reconcile: map[string]Expectation{
			"jojajovai": {Format: FormatTabular, TextColumn: "gn"},
			"culturalx": {Format: FormatTabular, TextColumn: "text"},
			"tatoeba": {
				Format:     FormatTabular,
				Separator:  "\t",
				Columns:    []string{"id", "lang", "text"},
				TextColumn: "text",
				Strict:     true,
			},
			"gn_qa": {
				Format:       FormatTabular,
				Separator:    "\t",
				TextColumn:   "question",
				UniqueColumn: "context",
				Sanitize:     true,
			},
			"americasnlp": {Format: FormatLine, Extensions: []string{".gn"}},
			"ud_guarani": {
				Format:         FormatLine,
				Extensions:     []string{".conllu"},
				LinePrefix:     "# text",
				FieldSeparator: " = ",
				FieldIndex:     1,
			},
			"opus":     {Format: FormatMarkup},
			"belebele": {Format: FormatJSONL, Multiplier: 2},
		},
	}
}

// Rule returns the extraction rule of a corpus with the language defaults
// filled in. Lookup falls back to the lower-cased identity because viper
// lower-cases map keys.
func (c *Config) Rule(corpus string) (ExtractionRule, bool) {
	rule, ok := c.Corpora[corpus]
	if !ok {
		rule, ok = c.Corpora[strings.ToLower(corpus)]
	}
	if !ok {
		return ExtractionRule{}, false
	}
	if rule.Language == "" {
		rule.Language = c.Language.Code
	}
	if rule.Script == "" {
		rule.Script = c.Language.Script
	}
	return rule, true
}

// Expect returns the reconciliation expectation of a corpus
func (c *Config) Expect(corpus string) (Expectation, bool) {
	exp, ok := c.Reconcile[corpus]
	if !ok {
		exp, ok = c.Reconcile[strings.ToLower(corpus)]
	}
	return exp, ok
}
