// Package model contains domain models passed between layers.
package model

import "fmt"

// PlayerWeekRecord is one row of film input: a player's counting stats for a
// single week. Immutable once read; grouping keys are (player, week).
type PlayerWeekRecord struct {
	Player            string
	Week              int
	Snaps             int
	Targets           int
	Catches           int
	RecYards          int
	RushYards         int
	Touchdowns        int
	Drops             int
	MissedAssignments int
	Loafs             int
	KeyPlays          int
	Codes             string // freeform play-annotation codes, may be empty
}

// Validate checks the counting stats for negative values. The CSV layer has
// already rejected non-numeric fields, so a negative count is the only way a
// record can be malformed at this point.
func (r PlayerWeekRecord) Validate() error {
	stats := []struct {
		name  string
		value int
	}{
		{"week", r.Week},
		{"snaps", r.Snaps},
		{"targets", r.Targets},
		{"catches", r.Catches},
		{"rec_yards", r.RecYards},
		{"rush_yards", r.RushYards},
		{"touchdowns", r.Touchdowns},
		{"drops", r.Drops},
		{"missed_assignments", r.MissedAssignments},
		{"loafs", r.Loafs},
		{"key_plays", r.KeyPlays},
	}
	for _, s := range stats {
		if s.value < 0 {
			return fmt.Errorf("player %q week %d: %s is %d: %w",
				r.Player, r.Week, s.name, s.value, ErrNegativeStat)
		}
	}
	return nil
}

// DerivedMetrics are the per-record rates the grading formula consumes.
// Each is a pure function of one PlayerWeekRecord; every division-by-zero
// case resolves to 0 rather than an error.
type DerivedMetrics struct {
	CatchRate              float64 // catches / (catches + drops)
	DropRate               float64 // drops / (catches + drops)
	YardsPerTarget         float64 // (rec + rush yards) / targets
	TDsPer30               float64
	TargetsPer30           float64
	KeyPlaysPer30          float64
	MissedAssignmentsPer30 float64
	LoafsPer30             float64
}

// GradeResult is the grader's output for one record.
type GradeResult struct {
	RawScore float64 // unclamped formula value
	Score    float64 // RawScore clamped to [0, 100]
	Letter   string  // A, B, C, D or F
}

// CodeEvent is one parsed token from a codes string.
type CodeEvent struct {
	Code   string  // canonical upper-case code, e.g. "ER", "C+12"
	Points float64 // resolved point value
}

// CodeSummary aggregates a record's CodeEvents. Points equals the sum of the
// events' point values; the count values sum to the number of matched tokens.
type CodeSummary struct {
	Points     float64
	Counts     map[string]int // canonical code -> occurrences
	Unmatched  int            // tokens that matched nothing in the legend
	CatchYards int            // yards accumulated from C+n tokens
	RushYards  int            // yards accumulated from R+n tokens
	KeyPlays   int            // count of positive-impact codes
}

// Count returns the tally for a canonical code, zero when absent.
func (s CodeSummary) Count(code string) int {
	return s.Counts[code]
}

// GradedRecord bundles everything the pipeline produces for one input row:
// the normalized record, its derived rates, the grade and the code summary.
type GradedRecord struct {
	Record  PlayerWeekRecord
	Metrics DerivedMetrics
	Grade   GradeResult
	Codes   CodeSummary
}
