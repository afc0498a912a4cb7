package ynab

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cleared-dev/nda2ynab/internal/model"
)

// Header is the CSV header YNAB expects on import files.
const Header = "Date,Payee,Memo,Amount"

const (
	numFields = 4
	colDate   = 0
	colPayee  = 1
	colMemo   = 2
	colAmount = 3
)

// Row is one transaction in YNAB's import format.
type Row struct {
	Date   string
	Payee  string
	Memo   string
	Amount string
}

// FromTransaction maps a bank transaction to a YNAB row. Date and amount
// are passed through as the bank formatted them.
func FromTransaction(t model.Transaction) Row {
	return Row{
		Date:   t.Date,
		Payee:  t.Description,
		Amount: t.Amount,
	}
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(r Row) []string {
	rec := make([]string, numFields)
	rec[colDate] = r.Date
	rec[colPayee] = r.Payee
	rec[colMemo] = r.Memo
	rec[colAmount] = r.Amount
	return rec
}

// Write writes txns as a YNAB CSV (including header).
func Write(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalRow(FromTransaction(t))); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	return nil
}

// WriteFile creates or truncates path and writes txns to it.
func WriteFile(path string, txns []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := Write(f, txns); err != nil {
		f.Close()
		return fmt.Errorf("writing output %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output %s: %w", path, err)
	}
	return nil
}
