package csvtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const bom = "\uFEFF"

var (
	lineBreak      = regexp.MustCompile(`\r?\n`)
	delimiterChars = strings.NewReplacer(",", "", "\t", "", ";", "", " ", "")
	candidates     = []rune{',', ';', '\t'}
)

// Result holds the extracted rows and every structural problem met on the way.
// Rows are returned even when Errors is not empty.
type Result struct {
	Rows   []Row
	Errors []string
}

// Parse reads spreadsheet-exported CSV text. The first non-blank line holds the
// headers; the delimiter is detected from it.
func Parse(text string) Result {
	cleaned := stripLeadingBlankLines(strings.TrimPrefix(text, bom))
	if strings.TrimSpace(cleaned) == "" {
		return Result{}
	}

	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.Comma = DetectDelimiter(cleaned)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		records [][]string
		errs    []string
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				errs = append(errs, parseErr.Error())
				continue
			}
			errs = append(errs, err.Error())
			break
		}
		records = append(records, record)
	}

	result := build(records, true)
	result.Errors = append(errs, result.Errors...)
	return result
}

// FromRecords turns already-split records (for example spreadsheet cells) into
// rows using the same header and blank-row rules as Parse. Short records are
// expected there, so field counts are not reported.
func FromRecords(records [][]string) Result {
	for len(records) > 0 && blankRecord(records[0]) {
		records = records[1:]
	}
	return build(records, false)
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// DetectDelimiter picks the most frequent candidate on the first line. Ties
// keep the earlier candidate; comma wins when none occurs.
func DetectDelimiter(text string) rune {
	first := lineBreak.Split(text, 2)[0]
	best, bestCount := ',', 0
	for _, c := range candidates {
		if n := strings.Count(first, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func stripLeadingBlankLines(text string) string {
	lines := lineBreak.Split(text, -1)
	for len(lines) > 0 && strings.TrimSpace(delimiterChars.Replace(lines[0])) == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

func build(records [][]string, reportFieldCount bool) Result {
	if len(records) == 0 {
		return Result{}
	}
	headers := normalizeHeaders(records[0])
	result := Result{Rows: make([]Row, 0, len(records)-1)}
	for i, record := range records[1:] {
		row := Row{values: make(map[string]string, len(headers))}
		for j, value := range record {
			if j >= len(headers) {
				break
			}
			row.set(headers[j], value)
		}
		if row.Blank() {
			continue
		}
		if reportFieldCount && len(record) != len(headers) {
			kind := "few"
			if len(record) > len(headers) {
				kind = "many"
			}
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: too %s fields: expected %d fields but parsed %d", i+1, kind, len(headers), len(record)))
		}
		result.Rows = append(result.Rows, row)
	}
	return result
}

// normalizeHeaders trims each header and suffixes repeats ("Name", "Name_1").
func normalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n)
		} else {
			seen[h] = 1
		}
		out[i] = h
	}
	return out
}
