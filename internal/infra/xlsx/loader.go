package xlsx

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/keiprogram/English-Test-App/internal/domain"
)

// Column layout of the word sheet: No. / 単語 / 語の意味.
const (
	colID = iota
	colTerm
	colMeaning
	minColumns
)

// Loader reads the vocabulary from an Excel workbook.
type Loader struct {
	path  string
	sheet string
	log   *zap.Logger
}

// NewLoader reads path. An empty sheet name selects the first sheet of the workbook.
func NewLoader(path, sheet string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{path: path, sheet: sheet, log: logger}
}

func (l *Loader) LoadVocabulary(_ context.Context) ([]domain.WordEntry, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrDataUnavailable, l.path, err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", domain.ErrDataUnavailable, l.path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrDataUnavailable, sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet %q has no words", domain.ErrDataUnavailable, sheet)
	}

	entries, err := l.parseRows(rows[1:])
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no words", domain.ErrDataUnavailable, sheet)
	}
	l.log.Info("vocabulary loaded",
		zap.String("path", l.path),
		zap.String("sheet", sheet),
		zap.Int("words", len(entries)),
	)
	return entries, nil
}

// parseRows converts data rows, skipping blank and short rows. Row numbers in errors
// are 1-based sheet rows, counting the header.
func (l *Loader) parseRows(rows [][]string) ([]domain.WordEntry, error) {
	entries := make([]domain.WordEntry, 0, len(rows))
	seen := make(map[int]struct{}, len(rows))
	for i, row := range rows {
		line := i + 2
		if len(row) < minColumns {
			continue
		}
		rawID := strings.TrimSpace(row[colID])
		term := strings.TrimSpace(row[colTerm])
		meaning := strings.TrimSpace(row[colMeaning])
		if rawID == "" && term == "" && meaning == "" {
			continue
		}
		if term == "" || meaning == "" {
			l.log.Warn("skipping incomplete row", zap.Int("row", line))
			continue
		}
		id, err := strconv.Atoi(rawID)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: id %q is not a number", domain.ErrDataUnavailable, line, rawID)
		}
		if _, dup := seen[id]; dup {
			l.log.Warn("dropping duplicate word id", zap.Int("row", line), zap.Int("id", id))
			continue
		}
		seen[id] = struct{}{}
		entries = append(entries, domain.WordEntry{ID: id, Term: term, Meaning: meaning})
	}
	return entries, nil
}
