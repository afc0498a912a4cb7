// Package overlap finds where a previous export ends inside a newer export of
// the same account, so only transactions the previous run did not see are
// emitted.
//
// Exports list transactions newest first. The most recent row of the
// previous export (the anchor) is located in the current export; everything
// above it is new. Identical rows are common (two equal purchases on one
// day), so the anchor is matched as many times as it occurs in the previous
// export, counting back from its last occurrence in the current one.
package overlap

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/nda2ynab/internal/model"
)

// ErrEmptyPrevious is returned when the previous export has no usable rows
// and so cannot anchor the comparison.
var ErrEmptyPrevious = errors.New("previous export does not contain any valid rows")

// GapError reports that the current export does not reach back far enough to
// cover everything the previous export contained.
type GapError struct {
	Anchor   model.Transaction
	Found    int
	Required int
}

func (e *GapError) Error() string {
	return fmt.Sprintf("most recent previous transaction (%s %s %q) found %d time(s) in current export, need %d",
		e.Anchor.Date, e.Anchor.Amount, e.Anchor.Description, e.Found, e.Required)
}

// Anchor is the most recent transaction of the previous export and how many
// identical rows that export held. Build it with NewAnchor; the zero value
// has no repetitions and is rejected by CutIndex.
type Anchor struct {
	Transaction model.Transaction
	Repetitions int
}

// NewAnchor builds the anchor from the previous export's rows.
func NewAnchor(previous []model.Transaction) (Anchor, error) {
	if len(previous) == 0 {
		return Anchor{}, ErrEmptyPrevious
	}
	a := Anchor{Transaction: previous[0]}
	for _, t := range previous {
		if t.Equal(a.Transaction) {
			a.Repetitions++
		}
	}
	return a, nil
}

// CutIndex returns the index in current of the first already-processed row.
// Rows before it are new.
func (a Anchor) CutIndex(current []model.Transaction) (int, error) {
	if a.Repetitions < 1 {
		return 0, fmt.Errorf("anchor has %d repetitions, want at least 1", a.Repetitions)
	}
	need := a.Repetitions
	var positions []int
	for i, t := range current {
		if t.Equal(a.Transaction) {
			positions = append(positions, i)
		}
	}
	if len(positions) < need {
		return 0, &GapError{Anchor: a.Transaction, Found: len(positions), Required: need}
	}
	return positions[len(positions)-need], nil
}

// NewTransactions returns the rows of current not covered by the previous
// export. A nil anchor means there was no previous export and every row is new.
func NewTransactions(current []model.Transaction, anchor *Anchor) ([]model.Transaction, error) {
	if anchor == nil {
		return current, nil
	}
	cut, err := anchor.CutIndex(current)
	if err != nil {
		return nil, err
	}
	return current[:cut], nil
}
