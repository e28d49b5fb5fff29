package extract

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// Triple is one raw text unit pulled out of a corpus file, before annotation
type Triple struct {
	Text   string
	Source string
	URL    string
}

// naValues are cell contents a dataframe reader would load as a missing value
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// CellText returns the cell as text when it holds a string value. Missing
// values and numeric literals are not strings.
func CellText(cell string) (string, bool) {
	trimmed := strings.TrimSpace(cell)
	if _, na := naValues[trimmed]; na {
		return "", false
	}
	if isNumber(trimmed) {
		return "", false
	}
	return cell, true
}

// isNumber reports whether s is a decimal integer or float literal,
// optionally signed and with an exponent
func isNumber(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

// Decode converts data from the named charset to UTF-8. An empty label or a
// UTF-8 label returns data unchanged.
func Decode(data []byte, label string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return data, nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", label, err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", label, err)
	}
	return decoded, nil
}

var tabRun = regexp.MustCompile(`\t+`)

// SanitizeTSV removes double quotes, collapses runs of tabs into one and trims
// every line. It works on a copy; the raw file is left untouched.
func SanitizeTSV(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	var buf strings.Builder
	buf.Grow(len(data))
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			break
		}
		line = strings.ReplaceAll(line, `"`, "")
		line = tabRun.ReplaceAllString(strings.TrimSpace(line), "\t")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return []byte(buf.String())
}

// CellValue returns the cell unless it holds a missing value
func CellValue(cell string) (string, bool) {
	if _, na := naValues[strings.TrimSpace(cell)]; na {
		return "", false
	}
	return cell, true
}

// Lines splits data into lines, accepting both \n and \r\n endings and
// dropping a leading byte order mark
func Lines(data []byte) []string {
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
