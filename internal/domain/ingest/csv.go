// Package ingest loads patient CSV uploads: it validates the file, cleans
// headers and cells into the loosely typed row format the rest of the system
// normalizes from, and commits rows in atomic chunks.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMaxUploadBytes caps uploads at 10 MB.
const DefaultMaxUploadBytes = 10 << 20

var headerJunk = regexp.MustCompile(`[^a-z0-9_]`)

// ValidateFile rejects uploads that are not CSV or exceed the size cap.
func ValidateFile(filename, contentType string, size, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	isCSV := ext == ".csv" || strings.HasPrefix(contentType, "text/csv")
	if !isCSV {
		return fmt.Errorf("unsupported file type: want a .csv file, got %q", filename)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if size > maxBytes {
		return fmt.Errorf("file too large: %d bytes exceeds the %d byte limit", size, maxBytes)
	}
	return nil
}

// NormalizeHeader lowercases a column name, turns whitespace runs into
// underscores, and strips everything else. "Patient ID" and "patient_id"
// become the same column.
func NormalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), "_")
	return headerJunk.ReplaceAllString(name, "")
}

// CleanCell coerces a raw cell into the stored representation: empty cells
// become nil, numeric strings become numbers, and yes/no style flags become
// zero or one.
func CleanCell(raw string) interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch strings.ToLower(raw) {
	case "true", "yes":
		return float64(1)
	case "false", "no":
		return float64(0)
	}
	return raw
}

// ParseResult is the outcome of reading one CSV stream.
type ParseResult struct {
	Rows    []map[string]interface{}
	Skipped int // malformed rows dropped
}

// Parse reads a CSV stream into cleaned row maps. Rows whose field count
// does not match the header are dropped and counted, never fatal.
func Parse(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = NormalizeHeader(h)
	}

	result := &ParseResult{}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("read rows: %w", err)
		}
		if len(fields) != len(columns) {
			result.Skipped++
			continue
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if v := CleanCell(fields[i]); v != nil {
				row[col] = v
			}
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}
