// Package report renders player-facing weekly review reports as plain text.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fieldvision/filmgrade/internal/domain/aggregate"
	"github.com/fieldvision/filmgrade/internal/domain/codes"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
	topCodes       = 7
)

// Display order for the two report sections. Codes a player never earned
// are omitted.
var (
	positiveOrder = []string{"TD", "SC", "ER", "GR", "GB", "P", "FD", "E"}
	negativeOrder = []string{"MA", "DP", "L", "NFS", "W", "BR", "H"}
)

// Writer renders weekly review reports. The legend supplies point values for
// the per-code breakdown; letter maps a mean score onto a grade.
type Writer struct {
	legend codes.Legend
	letter func(score float64) string
}

// New creates a report Writer.
func New(legend codes.Legend, letter func(float64) string) *Writer {
	return &Writer{legend: legend, letter: letter}
}

// Render builds one player-week review as text.
func (w *Writer) Render(g aggregate.WeekGroup) string {
	t := g.Totals
	var b strings.Builder

	fmt.Fprintf(&b, "PLAYER REVIEW — %s — Week %d\n", g.Player, g.Week)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Summary: Grade %s (%.1f)  |  Snaps %d  |  Tgts %d  |  Rec %d for %d yds  |  Rush %d yds  |  TD %d\n",
		w.letter(g.MeanScore), g.MeanScore, t.Snaps, t.Targets, t.Catches, t.RecYards, t.RushYards, t.Touchdowns)
	fmt.Fprintf(&b, "Discipline: Drops %d  |  MAs %d  |  Loafs %d\n",
		t.Drops, t.MissedAssignments, t.Loafs)
	fmt.Fprintf(&b, "Key Plays Points (sum): %.1f\n\n", g.CodePoints)

	if section := w.codeSection(g.CodeCounts, positiveOrder); section != "" {
		b.WriteString("WHAT YOU DID WELL\n" + section + "\n")
	}
	if section := w.codeSection(g.CodeCounts, negativeOrder); section != "" {
		b.WriteString("WHERE TO IMPROVE\n" + section + "\n")
	}

	b.WriteString("COACHING POINTS\n")
	for _, line := range coachingPoints(g.CodeCounts) {
		b.WriteString("  • " + line + "\n")
	}
	return b.String()
}

// WriteAll renders every group into dir as <player>_<week>.txt and returns
// the written paths.
func (w *Writer) WriteAll(dir string, groups []aggregate.WeekGroup) ([]string, error) {
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	paths := make([]string, 0, len(groups))
	for _, g := range groups {
		name := fmt.Sprintf("%s_%d.txt",
			strings.ReplaceAll(strings.TrimSpace(g.Player), " ", "_"), g.Week)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(w.Render(g)), filePermission); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteReport, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// codeSection lists the group's top codes from the given set, most frequent
// first, with the points each tally was worth.
func (w *Writer) codeSection(counts map[string]int, order []string) string {
	type entry struct {
		code  string
		count int
	}
	entries := make([]entry, 0, len(order))
	for _, code := range order {
		if n := counts[code]; n > 0 {
			entries = append(entries, entry{code, n})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	if len(entries) > topCodes {
		entries = entries[:topCodes]
	}

	var b strings.Builder
	for _, e := range entries {
		pts := w.legend.Rules[e.code].Points * float64(e.count)
		sign := ""
		if pts >= 0 {
			sign = "+"
		}
		fmt.Fprintf(&b, "  • %s: x%d  (%s%.0f)\n", e.code, e.count, sign, pts)
	}
	return b.String()
}

// coachingPoints picks drill suggestions from the week's negative tallies.
func coachingPoints(counts map[string]int) []string {
	var lines []string
	if counts["DP"] > 0 {
		lines = append(lines, "Jugs work: 50 high-speed catches, 20 contested — focus eyes to tuck.")
	}
	if counts["MA"] > 0 {
		lines = append(lines, "Walk-through: alignment, split, and route depth for your assignments.")
	}
	if counts["L"]+counts["NFS"] > 0 {
		lines = append(lines, "Finish every rep on film — sprint off screen, block through whistle.")
	}
	if counts["W"] > 0 {
		lines = append(lines, "Strike timing on stalk block — inside hand fit, under control into contact.")
	}
	if len(lines) == 0 {
		lines = append(lines, "Keep stacking habits — practice full speed reps.")
	}
	return lines
}
