// Package csvio reads weekly film sheets and writes graded results as CSV.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fieldvision/filmgrade/internal/domain/model"
)

// requiredColumns are the normalized header names a sheet must carry.
// key_plays and codes are optional; key plays fall back to code-derived
// counts downstream.
var requiredColumns = []string{
	"player", "week", "snaps", "targets", "catches", "rec_yards",
	"rush_yards", "touchdowns", "drops", "missed_assignments", "loafs",
}

// Raw header names that hold split positive/negative play codes. When
// present they are merged into the codes column before normalization.
const (
	posCodesHeader = "key play ++"
	negCodesHeader = "key play --"
)

// RowError describes one input row that was excluded from the batch.
type RowError struct {
	Line  int // 1-based line number in the input, header = 1
	Field string
	Value string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: field %q value %q: %v", e.Line, e.Field, e.Value, e.Err)
}

// Read parses a film sheet. Header matching is case-insensitive and ignores
// spaces; "Rec Yards", "rec_yards" and "RECYARDS" all bind the same column.
// Missing required columns fail the whole batch. Rows with non-numeric or
// negative stats are excluded and reported in the second return value while
// the rest of the batch proceeds.
func Read(r io.Reader) ([]model.PlayerWeekRecord, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	if len(rows) < 2 {
		return nil, nil, ErrEmptyInput
	}

	cols, err := bindColumns(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		records []model.PlayerWeekRecord
		skipped []RowError
	)
	for i, row := range rows[1:] {
		line := i + 2
		rec, rowErr := parseRow(row, cols, line)
		if rowErr != nil {
			skipped = append(skipped, *rowErr)
			continue
		}
		if err := rec.Validate(); err != nil {
			skipped = append(skipped, RowError{Line: line, Field: "record", Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// ReadFile opens and parses a film sheet from disk.
func ReadFile(path string) ([]model.PlayerWeekRecord, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	defer f.Close()
	return Read(f)
}

// columnMap binds normalized column names to their index in the sheet.
type columnMap struct {
	index    map[string]int
	posCodes int // raw "key play ++" column, -1 when absent
	negCodes int // raw "key play --" column, -1 when absent
}

func bindColumns(header []string) (columnMap, error) {
	cols := columnMap{
		index:    make(map[string]int, len(header)),
		posCodes: -1,
		negCodes: -1,
	}
	for i, raw := range header {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case posCodesHeader:
			cols.posCodes = i
			continue
		case negCodesHeader:
			cols.negCodes = i
			continue
		}
		name := normalizeHeader(raw)
		if name == "" {
			continue
		}
		if _, dup := cols.index[name]; !dup {
			cols.index[name] = i
		}
	}

	var missing []string
	for _, want := range requiredColumns {
		if !cols.has(want) {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return columnMap{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

// has accepts both underscored and fully collapsed spellings, since sheets
// disagree on "rec_yards" vs "Rec Yards".
func (c columnMap) has(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

func (c columnMap) lookup(name string) (int, bool) {
	if i, ok := c.index[name]; ok {
		return i, true
	}
	i, ok := c.index[strings.ReplaceAll(name, "_", "")]
	return i, ok
}

func (c columnMap) field(row []string, name string) string {
	i, ok := c.lookup(name)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// normalizeHeader lowercases and strips everything but letters, digits and
// underscores, then collapses doubled underscores.
func normalizeHeader(raw string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(raw) {
		if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		}
	}
	name := b.String()
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return strings.Trim(name, "_")
}

func parseRow(row []string, cols columnMap, line int) (model.PlayerWeekRecord, *RowError) {
	rec := model.PlayerWeekRecord{
		Player: cols.field(row, "player"),
		Codes:  cols.field(row, "codes"),
	}

	// Split positive/negative code columns fold into the codes string.
	extra := ""
	if cols.posCodes >= 0 && cols.posCodes < len(row) {
		extra = strings.TrimSpace(row[cols.posCodes])
	}
	if cols.negCodes >= 0 && cols.negCodes < len(row) {
		extra = strings.TrimSpace(extra + " " + strings.TrimSpace(row[cols.negCodes]))
	}
	if extra != "" {
		rec.Codes = strings.TrimSpace(rec.Codes + " " + extra)
	}

	numeric := []struct {
		name string
		dst  *int
	}{
		{"week", &rec.Week},
		{"snaps", &rec.Snaps},
		{"targets", &rec.Targets},
		{"catches", &rec.Catches},
		{"rec_yards", &rec.RecYards},
		{"rush_yards", &rec.RushYards},
		{"touchdowns", &rec.Touchdowns},
		{"drops", &rec.Drops},
		{"missed_assignments", &rec.MissedAssignments},
		{"loafs", &rec.Loafs},
		{"key_plays", &rec.KeyPlays},
	}
	for _, f := range numeric {
		raw := cols.field(row, f.name)
		if raw == "" {
			continue // empty cells read as zero
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.PlayerWeekRecord{}, &RowError{
				Line: line, Field: f.name, Value: raw,
				Err: ErrNotNumeric,
			}
		}
		*f.dst = int(v)
	}
	return rec, nil
}
