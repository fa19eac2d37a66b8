// Package aggregate groups graded records into summary rows.
package aggregate

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/fieldvision/filmgrade/internal/domain/model"
)

// GroupKey selects the grouping column for summaries.
type GroupKey string

// Supported grouping keys.
const (
	ByPlayer GroupKey = "player"
	ByWeek   GroupKey = "week"
)

// ParseGroupKey validates a user-supplied grouping key.
func ParseGroupKey(s string) (GroupKey, error) {
	switch GroupKey(s) {
	case "", ByPlayer:
		return ByPlayer, nil
	case ByWeek:
		return ByWeek, nil
	default:
		return "", fmt.Errorf("group key %q: %w", s, ErrUnknownGroupKey)
	}
}

// Summary is one grouped output row: mean rates and score over the group's
// records, plus the group's total code points.
type Summary struct {
	Key                    string // player name, or week number as text
	Records                int
	Score                  float64
	CatchRate              float64
	DropRate               float64
	YardsPerTarget         float64
	TargetsPer30           float64
	KeyPlaysPer30          float64
	TDsPer30               float64
	MissedAssignmentsPer30 float64
	LoafsPer30             float64
	CodePoints             float64
}

// GroupBy averages graded records under the given key and returns the
// summaries sorted by mean score, best first.
func GroupBy(rows []model.GradedRecord, key GroupKey) ([]Summary, error) {
	if _, err := ParseGroupKey(string(key)); err != nil {
		return nil, err
	}

	groups := make(map[string][]model.GradedRecord)
	for _, row := range rows {
		k := row.Record.Player
		if key == ByWeek {
			k = strconv.Itoa(row.Record.Week)
		}
		groups[k] = append(groups[k], row)
	}

	summaries := make([]Summary, 0, len(groups))
	for k, members := range groups {
		s := Summary{Key: k, Records: len(members)}
		for _, m := range members {
			s.Score += m.Grade.Score
			s.CatchRate += m.Metrics.CatchRate
			s.DropRate += m.Metrics.DropRate
			s.YardsPerTarget += m.Metrics.YardsPerTarget
			s.TargetsPer30 += m.Metrics.TargetsPer30
			s.KeyPlaysPer30 += m.Metrics.KeyPlaysPer30
			s.TDsPer30 += m.Metrics.TDsPer30
			s.MissedAssignmentsPer30 += m.Metrics.MissedAssignmentsPer30
			s.LoafsPer30 += m.Metrics.LoafsPer30
			s.CodePoints += m.Codes.Points
		}
		n := float64(len(members))
		s.Score /= n
		s.CatchRate /= n
		s.DropRate /= n
		s.YardsPerTarget /= n
		s.TargetsPer30 /= n
		s.KeyPlaysPer30 /= n
		s.TDsPer30 /= n
		s.MissedAssignmentsPer30 /= n
		s.LoafsPer30 /= n
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Score != summaries[j].Score {
			return summaries[i].Score > summaries[j].Score
		}
		return summaries[i].Key < summaries[j].Key
	})
	return summaries, nil
}

// WeekGroup is the per-(player, week) roll-up the text reports consume:
// summed counting stats, the mean score, and the merged code tallies.
type WeekGroup struct {
	Player     string
	Week       int
	Records    int
	Totals     model.PlayerWeekRecord
	MeanScore  float64
	CodePoints float64
	CodeCounts map[string]int
	KeyPlays   int
}

// ByPlayerWeek rolls graded records up per (player, week), ordered by player
// then week. Most sheets carry one record per pair; duplicates are summed
// the same way the season roll-up sums weeks.
func ByPlayerWeek(rows []model.GradedRecord) []WeekGroup {
	type pw struct {
		player string
		week   int
	}

	groups := make(map[pw]*WeekGroup)
	var order []pw
	for _, row := range rows {
		k := pw{row.Record.Player, row.Record.Week}
		g, ok := groups[k]
		if !ok {
			g = &WeekGroup{
				Player:     k.player,
				Week:       k.week,
				CodeCounts: make(map[string]int),
			}
			g.Totals.Player = k.player
			g.Totals.Week = k.week
			groups[k] = g
			order = append(order, k)
		}

		g.Records++
		r := row.Record
		g.Totals.Snaps += r.Snaps
		g.Totals.Targets += r.Targets
		g.Totals.Catches += r.Catches
		g.Totals.RecYards += r.RecYards
		g.Totals.RushYards += r.RushYards
		g.Totals.Touchdowns += r.Touchdowns
		g.Totals.Drops += r.Drops
		g.Totals.MissedAssignments += r.MissedAssignments
		g.Totals.Loafs += r.Loafs
		g.KeyPlays += r.KeyPlays

		g.MeanScore += row.Grade.Score
		g.CodePoints += row.Codes.Points
		for code, n := range row.Codes.Counts {
			g.CodeCounts[code] += n
		}
	}

	out := make([]WeekGroup, 0, len(order))
	for _, k := range order {
		g := groups[k]
		g.MeanScore /= float64(g.Records)
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].Week < out[j].Week
	})
	return out
}
