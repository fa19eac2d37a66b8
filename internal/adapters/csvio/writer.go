package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fieldvision/filmgrade/internal/domain/aggregate"
	"github.com/fieldvision/filmgrade/internal/domain/model"
)

const (
	floatPrecision = 3
	dirPermission  = 0o755
)

// resultColumns is the fixed leading column order of the detailed results
// file; per-code count columns follow, sorted by code.
var resultColumns = []string{
	"player", "week", "snaps", "targets", "catches", "rec_yards",
	"rush_yards", "touchdowns", "drops", "missed_assignments", "loafs",
	"key_plays", "codes", "code_points", "catch_rate", "yards_per_target",
	"targets_per30", "keyplays_per30", "tds_per30", "drop_rate",
	"ma_per30", "loafs_per30", "raw_score", "score", "grade",
	"unmatched_codes",
}

// WriteResults writes the detailed per-record results CSV.
func WriteResults(w io.Writer, rows []model.GradedRecord) error {
	codeCols := codeColumns(rows)

	cw := csv.NewWriter(w)
	header := append(append([]string{}, resultColumns...), codeCols...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	for _, row := range rows {
		r, m, g := row.Record, row.Metrics, row.Grade
		out := []string{
			r.Player,
			strconv.Itoa(r.Week),
			strconv.Itoa(r.Snaps),
			strconv.Itoa(r.Targets),
			strconv.Itoa(r.Catches),
			strconv.Itoa(r.RecYards),
			strconv.Itoa(r.RushYards),
			strconv.Itoa(r.Touchdowns),
			strconv.Itoa(r.Drops),
			strconv.Itoa(r.MissedAssignments),
			strconv.Itoa(r.Loafs),
			strconv.Itoa(r.KeyPlays),
			r.Codes,
			formatFloat(row.Codes.Points),
			formatFloat(m.CatchRate),
			formatFloat(m.YardsPerTarget),
			formatFloat(m.TargetsPer30),
			formatFloat(m.KeyPlaysPer30),
			formatFloat(m.TDsPer30),
			formatFloat(m.DropRate),
			formatFloat(m.MissedAssignmentsPer30),
			formatFloat(m.LoafsPer30),
			formatFloat(g.RawScore),
			formatFloat(g.Score),
			g.Letter,
			strconv.Itoa(row.Codes.Unmatched),
		}
		for _, col := range codeCols {
			code := strings.ToUpper(strings.TrimPrefix(col, "cnt_"))
			out = append(out, strconv.Itoa(row.Codes.Count(code)))
		}
		if err := cw.Write(out); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// WriteSummary writes the grouped summary CSV produced by aggregate.GroupBy.
func WriteSummary(w io.Writer, key aggregate.GroupKey, summaries []aggregate.Summary) error {
	cw := csv.NewWriter(w)
	header := []string{
		string(key), "records", "score", "catch_rate", "drop_rate",
		"yards_per_target", "targets_per30", "keyplays_per30", "tds_per30",
		"ma_per30", "loafs_per30", "code_points",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	for _, s := range summaries {
		out := []string{
			s.Key,
			strconv.Itoa(s.Records),
			formatFloat(s.Score),
			formatFloat(s.CatchRate),
			formatFloat(s.DropRate),
			formatFloat(s.YardsPerTarget),
			formatFloat(s.TargetsPer30),
			formatFloat(s.KeyPlaysPer30),
			formatFloat(s.TDsPer30),
			formatFloat(s.MissedAssignmentsPer30),
			formatFloat(s.LoafsPer30),
			formatFloat(s.CodePoints),
		}
		if err := cw.Write(out); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// WriteResultsFile writes the detailed results CSV to disk, creating parent
// directories as needed.
func WriteResultsFile(path string, rows []model.GradedRecord) error {
	return writeFile(path, func(f io.Writer) error {
		return WriteResults(f, rows)
	})
}

// WriteSummaryFile writes the grouped summary CSV to disk.
func WriteSummaryFile(path string, key aggregate.GroupKey, summaries []aggregate.Summary) error {
	return writeFile(path, func(f io.Writer) error {
		return WriteSummary(f, key, summaries)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermission); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	defer f.Close()
	return write(f)
}

// codeColumns returns the sorted cnt_<code> column set across all rows.
// Parameterized codes (C+12, R+5) are yardage markers, not tallies; their
// contribution already shows up in code_points, so they get no column.
func codeColumns(rows []model.GradedRecord) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for code := range row.Codes.Counts {
			if strings.Contains(code, "+") {
				continue
			}
			seen[code] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for code := range seen {
		cols = append(cols, "cnt_"+strings.ToLower(code))
	}
	sort.Strings(cols)
	return cols
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', floatPrecision, 64)
}
