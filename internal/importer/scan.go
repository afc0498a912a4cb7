package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/nda2ynab/internal/model"
)

// ErrNoExports is returned when a directory holds no recognizable exports.
var ErrNoExports = errors.New("could not find any matching export files")

// Scan returns the exports in dir, newest first. Entries whose names do not
// match the pattern are ignored.
func Scan(dir string, p *FilePattern, logger *log.Logger) ([]model.ExportFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading export dir: %w", err)
	}

	var files []model.ExportFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, ok := p.ParseFileName(e.Name(), filepath.Join(dir, e.Name()))
		if !ok {
			logger.Debug("ignoring file", "name", e.Name())
			continue
		}
		files = append(files, f)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Timestamp.After(files[j].Timestamp)
	})
	return files, nil
}

// Select picks the current export (the newest) and the previous export of
// the same account. files must be sorted newest first, as Scan returns them.
// previous is nil when the account has no earlier export.
func Select(files []model.ExportFile) (current model.ExportFile, previous *model.ExportFile, err error) {
	if len(files) == 0 {
		return model.ExportFile{}, nil, ErrNoExports
	}
	current = files[0]
	for i := range files[1:] {
		f := files[i+1]
		if f.AccountID == current.AccountID {
			return current, &f, nil
		}
	}
	return current, nil, nil
}
