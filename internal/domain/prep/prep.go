// Package prep normalizes a record before grading. The grader itself is
// pure, so every conditional mutation of effective input lives here as an
// explicit stage instead of a side effect inside the formula.
package prep

import (
	"strings"

	"github.com/fieldvision/filmgrade/internal/domain/model"
)

// Normalize returns a copy of the record with the code-derived overrides
// applied:
//
//   - when a codes string is present, missed_assignments and loafs are taken
//     from the code tallies instead of the raw columns, so the sheet's
//     discipline numbers can never disagree with its film codes;
//   - when key_plays is absent or zero, it falls back to the count of
//     positive-impact codes;
//   - when no snaps were recorded, discipline counts are forced to zero
//     regardless of source.
//
// The original record is never modified.
func Normalize(r model.PlayerWeekRecord, summary model.CodeSummary) model.PlayerWeekRecord {
	out := r

	if strings.TrimSpace(r.Codes) != "" {
		out.MissedAssignments = summary.Count("MA")
		out.Loafs = summary.Count("L")
		if out.KeyPlays <= 0 {
			out.KeyPlays = summary.KeyPlays
		}
	}

	if out.Snaps <= 0 {
		out.MissedAssignments = 0
		out.Loafs = 0
	}

	return out
}
