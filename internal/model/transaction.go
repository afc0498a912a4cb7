package model

// Transaction is one row of a bank export. Fields are kept exactly as the
// bank wrote them; the amount is locale-formatted (e.g. "-12,50").
//
// Two transactions are the same transaction when all fields are equal. This
// is the only way rows are matched across exports.
type Transaction struct {
	Date        string
	Amount      string
	Description string
}

// Equal reports whether t and o are structurally identical.
func (t Transaction) Equal(o Transaction) bool {
	return t == o
}
