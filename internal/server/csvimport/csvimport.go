// Package csvimport reads a bulk intern import from comma-separated text.
//
// Every error returned by Parse concerns the batch as a whole; row contents
// are not validated here.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/certifier/internal/server/validation"
)

// MaxRows is the largest accepted batch.
const MaxRows = 100

// Columns is the exact header set, in template order.
var Columns = []string{"fullName", "email", "domain", "startDate", "endDate", "status"}

var (
	ErrBatch            = errors.New("invalid batch")
	ErrMissingColumns   = fmt.Errorf("%w: missing required columns", ErrBatch)
	ErrUnexpectedColumn = fmt.Errorf("%w: unexpected column", ErrBatch)
	ErrColumnCount      = fmt.Errorf("%w: column count mismatch", ErrBatch)
	ErrEmptyBatch       = fmt.Errorf("%w: no data rows", ErrBatch)
	ErrBatchTooLarge    = fmt.Errorf("%w: more than %d rows", ErrBatch, MaxRows)
	ErrMalformed        = fmt.Errorf("%w: malformed CSV", ErrBatch)
)

// Parse reads the header and all data rows. Blank lines are skipped and every
// value is trimmed.
func Parse(r io.Reader) ([]validation.Candidate, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBatch
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []validation.Candidate
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		line, _ := cr.FieldPos(0)
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d columns, header has %d", ErrColumnCount, line, len(record), len(header))
		}

		if len(rows) == MaxRows {
			return nil, ErrBatchTooLarge
		}

		get := func(col string) string { return strings.TrimSpace(record[index[col]]) }
		rows = append(rows, validation.Candidate{
			FullName:  get("fullName"),
			Email:     get("email"),
			Domain:    get("domain"),
			StartDate: get("startDate"),
			EndDate:   get("endDate"),
			Status:    get("status"),
		})
	}

	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, error) {
	known := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		known[c] = true
	}

	index := make(map[string]int, len(header))
	var unexpected []string
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; dup || !known[h] {
			unexpected = append(unexpected, fmt.Sprintf("%q", h))
			continue
		}
		index[h] = i
	}

	var missing []string
	for _, c := range Columns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	if len(unexpected) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedColumn, strings.Join(unexpected, ", "))
	}
	return index, nil
}

// Template returns a sample import file with the required header.
func Template() string {
	return strings.Join(Columns, ",") + "\n" +
		"John Doe,john.doe@example.com,Web Development,2024-01-15,2024-04-15,completed\n" +
		"Jane Smith,jane.smith@example.com,Data Science,2024-02-01,2024-05-01,active\n" +
		"Mike Johnson,mike.johnson@example.com,Mobile Development,2024-01-10,2024-04-10,completed\n"
}
