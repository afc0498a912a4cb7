package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/nda2ynab/internal/config"
	"github.com/cleared-dev/nda2ynab/internal/model"
)

const utf8BOM = "\ufeff"

// Reader parses bank export CSVs laid out as described by a schema.
type Reader struct {
	schema config.SchemaConfig
	logger *log.Logger
}

// NewReader creates a Reader for schema. Skipped rows are reported to logger.
func NewReader(schema config.SchemaConfig, logger *log.Logger) *Reader {
	return &Reader{schema: schema, logger: logger}
}

// columns holds the header index of each logical field.
type columns struct {
	date, amount, desc int
	max                int
}

// ReadFile opens path and reads its transactions.
func (r *Reader) ReadFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	fr := &Reader{schema: r.schema, logger: r.logger.With("file", filepath.Base(path))}
	txns, err := fr.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading export %s: %w", filepath.Base(path), err)
	}
	return txns, nil
}

// Read parses an export in source order. Malformed and pending rows are
// logged and left out; a missing header or mapped column is an error.
func (r *Reader) Read(src io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(src)
	cr.Comma = r.schema.DelimiterRune()
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := r.locate(header)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			r.logger.Warn("skipping malformed row", "line", perr.Line, "err", perr.Err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading rows: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if len(rec) <= cols.max {
			r.logger.Warn("skipping malformed row", "line", line, "fields", len(rec), "want", cols.max+1)
			continue
		}

		txn := model.Transaction{
			Date:        rec[cols.date],
			Amount:      rec[cols.amount],
			Description: rec[cols.desc],
		}
		if r.schema.PendingDate != "" && txn.Date == r.schema.PendingDate {
			r.logger.Info("skipping pending transaction", "line", line, "description", txn.Description, "amount", txn.Amount)
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func (r *Reader) locate(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	find := func(field string) (int, error) {
		src := r.schema.SourceColumn(field)
		i, ok := index[src]
		if !ok {
			return 0, fmt.Errorf("missing column %q for %s", src, field)
		}
		return i, nil
	}

	var cols columns
	var err error
	if cols.date, err = find(config.FieldDate); err != nil {
		return columns{}, err
	}
	if cols.amount, err = find(config.FieldAmount); err != nil {
		return columns{}, err
	}
	if cols.desc, err = find(config.FieldDescription); err != nil {
		return columns{}, err
	}
	cols.max = max(cols.date, cols.amount, cols.desc)
	return cols, nil
}
