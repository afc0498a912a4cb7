package model

import "time"

// ExportFile is a bank export discovered on disk whose name carried an
// account ID and an export timestamp.
type ExportFile struct {
	Name      string
	Path      string
	Timestamp time.Time
	AccountID string
}
