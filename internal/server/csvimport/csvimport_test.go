package csvimport

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/certifier/internal/server/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "fullName,email,domain,startDate,endDate,status\n"

func rows(n int) string {
	var b strings.Builder
	b.WriteString(header)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Intern %d,i%d@example.com,Engineering,2024-01-15,2024-04-15,active\n", i, i)
	}
	return b.String()
}

func TestParse_Template(t *testing.T) {
	got, err := Parse(strings.NewReader(Template()))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, validation.Candidate{
		FullName:  "John Doe",
		Email:     "john.doe@example.com",
		Domain:    "Web Development",
		StartDate: "2024-01-15",
		EndDate:   "2024-04-15",
		Status:    "completed",
	}, got[0])
}

func TestParse_HeaderInAnyOrderAndTrimmed(t *testing.T) {
	in := " status , endDate,startDate,domain,email,fullName\n" +
		"active, 2024-04-15 ,2024-01-15,Design,, \"Doe, Jane\"\n"

	got, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Doe, Jane", got[0].FullName)
	assert.Equal(t, "", got[0].Email)
	assert.Equal(t, "2024-04-15", got[0].EndDate)
	assert.Equal(t, "active", got[0].Status)
}

func TestParse_SkipsBlankLines(t *testing.T) {
	in := header + "\nA,a@example.com,D,2024-01-01,2024-02-01,active\n\n   \nB,,D,2024-01-01,2024-02-01,\n"

	got, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestParse_BatchErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
		msg     string
	}{
		{name: "empty input", in: "", wantErr: ErrEmptyBatch},
		{name: "header only", in: header, wantErr: ErrEmptyBatch},
		{name: "missing columns", in: "fullName,email,domain,startDate\nA,a@b.co,D,2024-01-01\n", wantErr: ErrMissingColumns, msg: "endDate, status"},
		{name: "unknown column", in: "fullName,email,domain,startDate,endDate,status,notes\n", wantErr: ErrUnexpectedColumn, msg: `"notes"`},
		{name: "duplicate column", in: "fullName,email,domain,startDate,endDate,status,email\n", wantErr: ErrUnexpectedColumn},
		{name: "short row", in: header + "A,a@example.com,D,2024-01-01,2024-02-01,active\nB,b@example.com,D\n", wantErr: ErrColumnCount, msg: "line 3"},
		{name: "long row", in: header + "A,a@example.com,D,2024-01-01,2024-02-01,active,extra\n", wantErr: ErrColumnCount},
		{name: "too many rows", in: rows(MaxRows + 1), wantErr: ErrBatchTooLarge},
		{name: "bad quoting", in: header + "\"A,a@example.com,D,2024-01-01,2024-02-01,active\n", wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.in))
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, ErrBatch)
			assert.Nil(t, got)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestParse_MaxRowsAccepted(t *testing.T) {
	got, err := Parse(strings.NewReader(rows(MaxRows)))
	require.NoError(t, err)
	assert.Len(t, got, MaxRows)
}

func TestParse_ColumnCountCheckedBeforeAnyRowIsReturned(t *testing.T) {
	in := header + "A,a@example.com,D,2024-01-01,2024-02-01,active\n" +
		"B,b@example.com,D,2024-01-01,2024-02-01\n" +
		"C,c@example.com,D,2024-01-01,2024-02-01,active\n"

	got, err := Parse(strings.NewReader(in))
	require.ErrorIs(t, err, ErrColumnCount)
	assert.Nil(t, got)
}
