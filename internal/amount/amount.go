package amount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/nda2ynab/internal/model"
)

// Parse converts a bank-formatted amount such as "-1 234,56" or "+12,00"
// into a decimal. Both comma and dot are accepted as the decimal separator.
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		case ',':
			return '.'
		case '\u2212':
			return '-'
		}
		return r
	}, s)
	clean = strings.TrimPrefix(clean, "+")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// Sum totals the amounts of txns. Amounts that cannot be parsed are left
// out of the total and counted in skipped.
func Sum(txns []model.Transaction) (total decimal.Decimal, skipped int) {
	total = decimal.Zero
	for _, t := range txns {
		d, err := Parse(t.Amount)
		if err != nil {
			skipped++
			continue
		}
		total = total.Add(d)
	}
	return total, skipped
}
