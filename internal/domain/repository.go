package domain

import "context"

// SheetReader supplies a table of rows; row 0 is the header row
type SheetReader interface {
	ReadRows(ctx context.Context) ([][]string, error)
}

// SheetWriter replaces the contents of a sheet with the given rows
type SheetWriter interface {
	WriteRows(ctx context.Context, rows [][]string) error
}

// RunRepository persists run reports between invocations
type RunRepository interface {
	Save(ctx context.Context, report *RunReport) error
	Get(ctx context.Context, runID string) (*RunReport, error)
	List(ctx context.Context, limit int) ([]*RunReport, error)
}
