package report

import "errors"

var (
	ErrExportNotFound    = errors.New("export not found")
	ErrExportWriteFailed = errors.New("failed to write export")
)
