package quiz

import (
	"fmt"
	"sort"

	"github.com/keiprogram/English-Test-App/internal/domain"
)

// DefaultRangeSize is the width of the id windows offered for selection.
const DefaultRangeSize = 100

// Vocabulary is the read-only word list, sorted by id.
type Vocabulary struct {
	entries []domain.WordEntry
}

// NewVocabulary validates and sorts the loaded entries.
func NewVocabulary(entries []domain.WordEntry) (*Vocabulary, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: vocabulary is empty", domain.ErrDataUnavailable)
	}

	sorted := make([]domain.WordEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].ID == sorted[i-1].ID {
			return nil, fmt.Errorf("%w: duplicate id %d", domain.ErrDataUnavailable, sorted[i].ID)
		}
	}
	return &Vocabulary{entries: sorted}, nil
}

// Entries returns a copy of the sorted entries.
func (v *Vocabulary) Entries() []domain.WordEntry {
	out := make([]domain.WordEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

func (v *Vocabulary) Len() int {
	return len(v.entries)
}

func (v *Vocabulary) MinID() int {
	return v.entries[0].ID
}

func (v *Vocabulary) MaxID() int {
	return v.entries[len(v.entries)-1].ID
}

// Ranges splits [MinID, MaxID] into consecutive windows of size ids.
// The last window is clipped to MaxID.
func (v *Vocabulary) Ranges(size int) []domain.Range {
	if size <= 0 {
		size = DefaultRangeSize
	}
	maxID := v.MaxID()
	var out []domain.Range
	for start := v.MinID(); start <= maxID; start += size {
		end := start + size - 1
		if end > maxID {
			end = maxID
		}
		out = append(out, domain.Range{Start: start, End: end})
	}
	return out
}

// Within returns the entries whose id lies in r.
func (v *Vocabulary) Within(r domain.Range) domain.Pool {
	lo := sort.Search(len(v.entries), func(i int) bool { return v.entries[i].ID >= r.Start })
	var out domain.Pool
	for i := lo; i < len(v.entries) && v.entries[i].ID <= r.End; i++ {
		out = append(out, v.entries[i])
	}
	return out
}
