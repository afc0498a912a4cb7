package convert

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/nda2ynab/internal/amount"
	"github.com/cleared-dev/nda2ynab/internal/config"
	"github.com/cleared-dev/nda2ynab/internal/importer"
	"github.com/cleared-dev/nda2ynab/internal/model"
	"github.com/cleared-dev/nda2ynab/internal/overlap"
	"github.com/cleared-dev/nda2ynab/internal/ynab"
)

// Service converts the newest bank export in a directory to a YNAB import
// file containing only transactions not seen in the previous export.
type Service struct {
	cfg    *config.Config
	logger *log.Logger
}

// NewService creates a convert Service.
func NewService(cfg *config.Config, logger *log.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

// Result summarizes a completed run.
type Result struct {
	Current    model.ExportFile
	Previous   *model.ExportFile // nil on the first run for an account
	Written    int
	Net        decimal.Decimal // sum of parsable written amounts
	OutputPath string
}

// Run converts the exports in dir and writes the configured output file.
func (s *Service) Run(dir string) (*Result, error) {
	pattern, err := importer.NewFilePattern(s.cfg.Files)
	if err != nil {
		return nil, err
	}

	files, err := importer.Scan(dir, pattern, s.logger)
	if err != nil {
		return nil, err
	}
	current, previous, err := importer.Select(files)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, dir)
	}
	s.logger.Info("using most recently exported file", "file", current.Name)

	reader := importer.NewReader(s.cfg.Schema, s.logger)
	rows, err := reader.ReadFile(current.Path)
	if err != nil {
		return nil, err
	}

	var anchor *overlap.Anchor
	if previous != nil {
		s.logger.Info("using previously exported file", "file", previous.Name)
		prevRows, err := reader.ReadFile(previous.Path)
		if err != nil {
			return nil, err
		}
		a, err := overlap.NewAnchor(prevRows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", previous.Name, err)
		}
		s.logger.Debug("anchor", "date", a.Transaction.Date, "description", a.Transaction.Description, "repetitions", a.Repetitions)
		anchor = &a
	} else {
		s.logger.Info("no previous export found, including all rows", "account", current.AccountID)
	}

	fresh, err := overlap.NewTransactions(rows, anchor)
	if err != nil {
		var gap *overlap.GapError
		if errors.As(err, &gap) {
			return nil, fmt.Errorf("%w: make sure %s contains the rows of %s", err, current.Name, previous.Name)
		}
		return nil, err
	}

	if err := ynab.WriteFile(s.cfg.Output.Path, fresh); err != nil {
		return nil, err
	}

	net, skipped := amount.Sum(fresh)
	if skipped > 0 {
		s.logger.Warn("some amounts could not be totalled", "count", skipped)
	}

	return &Result{
		Current:    current,
		Previous:   previous,
		Written:    len(fresh),
		Net:        net,
		OutputPath: s.cfg.Output.Path,
	}, nil
}
