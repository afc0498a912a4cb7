package importer

import (
	"fmt"
	"regexp"
	"time"

	"github.com/cleared-dev/nda2ynab/internal/config"
	"github.com/cleared-dev/nda2ynab/internal/model"
)

// FilePattern recognizes export file names and extracts the account ID and
// export timestamp from them.
type FilePattern struct {
	re      *regexp.Regexp
	layouts []string
}

// NewFilePattern compiles the configured file name pattern.
func NewFilePattern(cfg config.FilesConfig) (*FilePattern, error) {
	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling file pattern: %w", err)
	}
	if re.NumSubexp() != 2 {
		return nil, fmt.Errorf("file pattern %q: expected 2 capture groups, got %d", cfg.Pattern, re.NumSubexp())
	}
	return &FilePattern{re: re, layouts: cfg.TimestampLayouts}, nil
}

// Parse extracts the account ID and timestamp from name. ok is false when
// the name does not match or no layout parses the timestamp.
func (p *FilePattern) Parse(name string) (accountID string, ts time.Time, ok bool) {
	m := p.re.FindStringSubmatch(name)
	if m == nil {
		return "", time.Time{}, false
	}
	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, m[2]); err == nil {
			return m[1], t, true
		}
	}
	return "", time.Time{}, false
}

// ParseFileName returns the ExportFile described by name, or false if the
// file is not a recognizable export.
func (p *FilePattern) ParseFileName(name, path string) (model.ExportFile, bool) {
	accountID, ts, ok := p.Parse(name)
	if !ok {
		return model.ExportFile{}, false
	}
	return model.ExportFile{
		Name:      name,
		Path:      path,
		Timestamp: ts,
		AccountID: accountID,
	}, true
}
