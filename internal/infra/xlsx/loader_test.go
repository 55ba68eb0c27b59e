package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/keiprogram/English-Test-App/internal/domain"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func header() []interface{} {
	return []interface{}{"No.", "単語", "語の意味"}
}

func TestLoaderReadsFirstSheet(t *testing.T) {
	path := writeWorkbook(t, "pass1", [][]interface{}{
		header(),
		{1, "abandon", "見捨てる"},
		{2, " abundant ", "豊富な"},
		{},
		{3, "accelerate", "加速する"},
	})

	entries, err := NewLoader(path, "", nil).LoadVocabulary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.WordEntry{
		{ID: 1, Term: "abandon", Meaning: "見捨てる"},
		{ID: 2, Term: "abundant", Meaning: "豊富な"},
		{ID: 3, Term: "accelerate", Meaning: "加速する"},
	}, entries)
}

func TestLoaderSkipsShortRowsAndDuplicates(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		header(),
		{1, "abandon", "見捨てる"},
		{2, "abundant"},
		{1, "again", "再び"},
		{4, "", "空"},
		{5, "absorb", "吸収する"},
	})

	entries, err := NewLoader(path, "Sheet1", nil).LoadVocabulary(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "abandon", entries[0].Term, "first occurrence wins")
	assert.Equal(t, 5, entries[1].ID)
}

func TestLoaderRejectsNonNumericID(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		header(),
		{"one", "abandon", "見捨てる"},
	})

	_, err := NewLoader(path, "", nil).LoadVocabulary(context.Background())
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestLoaderFailures(t *testing.T) {
	headerOnly := writeWorkbook(t, "Sheet1", [][]interface{}{header()})

	tests := []struct {
		name  string
		path  string
		sheet string
	}{
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.xlsx")},
		{name: "header only", path: headerOnly},
		{name: "unknown sheet", path: headerOnly, sheet: "pass2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(tt.path, tt.sheet, nil).LoadVocabulary(context.Background())
			assert.ErrorIs(t, err, domain.ErrDataUnavailable)
		})
	}
}
