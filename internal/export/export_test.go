package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kharcha/internal/model"
)

var now = time.Date(2024, 3, 20, 18, 30, 0, 0, time.UTC)

func sample() []model.Expense {
	return []model.Expense{
		{
			ID:        "b",
			Amount:    decimal.RequireFromString("1250.50"),
			Category:  model.Bills,
			Notes:     "electricity, march",
			Date:      time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        "a",
			Amount:    decimal.NewFromInt(300),
			Category:  model.Food,
			Date:      time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2024, 3, 2, 13, 0, 0, 0, time.UTC),
		},
	}
}

func assertInputsMatch(t *testing.T, want []model.Expense, got []model.ExpenseInput) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Amount.Equal(got[i].Amount), "amount %d: %s vs %s", i, want[i].Amount, got[i].Amount)
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.Equal(t, want[i].Notes, got[i].Notes)
		assert.Equal(t, want[i].Date.Format(DateLayout), got[i].Date.Format(DateLayout))
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"csv", CSV},
		{"JSON", JSON},
		{".yml", YAML},
		{"yaml", YAML},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, CSV, sample(), now))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Category,Amount,Notes", lines[0])
	assert.Equal(t, `2024-03-18,Bills,1250.5,"electricity, march"`, lines[1])
	assert.Equal(t, "2024-03-02,Food,300,", lines[2])
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{CSV, JSON, YAML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, f, sample(), now))

			got, err := Read(&buf, f, time.UTC)
			require.NoError(t, err)
			assertInputsMatch(t, sample(), got)
		})
	}
}

func TestDocumentMetadata(t *testing.T) {
	doc := NewDocument(sample(), now)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, 2, doc.Count)
	assert.Equal(t, "1250.5", doc.Expenses[0].Amount)
	require.NotNil(t, doc.Expenses[0].CreatedAt)
}

func TestReadCSVColumnOrder(t *testing.T) {
	src := "amount,CATEGORY,date\n99.9,transport,2024-01-05\n\n10,other,2024-01-06\n"
	got, err := ReadCSV(strings.NewReader(src), time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.Transport, got[0].Category)
	assert.True(t, decimal.RequireFromString("99.9").Equal(got[0].Amount))
	assert.Empty(t, got[0].Notes)
	assert.Equal(t, model.Other, got[1].Category)
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing column", "Date,Amount\n2024-01-01,5\n", `missing "category"`},
		{"bad date", "Date,Category,Amount\n01/02/2024,Food,5\n", "line 2"},
		{"bad category", "Date,Category,Amount\n2024-01-02,Rent,5\n", "unknown category"},
		{"bad amount", "Date,Category,Amount\n2024-01-02,Food,five\n", "parsing amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.src), time.UTC)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestReadEmpty(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(""), time.UTC)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Read(strings.NewReader(""), YAML, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, got)
}
