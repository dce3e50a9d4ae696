// Package sheets defines the outbound port for exporting profile snapshots
// to a spreadsheet. Adapters live in the google and memory subpackages.
package sheets

import (
	"context"
	"time"

	"xpdash/internal/core"
)

// SnapshotExporter appends a snapshot as one spreadsheet row and returns a
// reference to where it landed.
type SnapshotExporter interface {
	Export(ctx context.Context, s core.Snapshot) (rowRef string, err error)
}

// Header is the column layout every exporter writes.
var Header = []any{"Taken at", "Login", "Campus", "Total XP", "School XP", "Piscine Go XP", "Piscine JS XP", "Audit ratio", "Projects", "Exercises"}

// Row converts a snapshot into cell values matching Header.
func Row(s core.Snapshot) []any {
	return []any{
		s.TakenAt.UTC().Format(time.DateTime),
		s.Login,
		s.Campus,
		s.TotalXP,
		s.SchoolXP,
		s.PiscineGoXP,
		s.PiscineJSXP,
		s.AuditRatio(),
		s.Projects,
		s.Exercises,
	}
}
