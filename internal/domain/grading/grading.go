// Package grading computes the weighted film grade for one player-week.
package grading

import (
	"fmt"
	"math"

	"github.com/fieldvision/filmgrade/internal/domain/model"
)

// Weights and caps of the grading formula. The per-30 terms normalize the
// rate against the 30-snap basis before capping, so a term saturates only
// when the underlying count reaches one per snap.
const (
	baseScore = 73.0

	catchRateWeight        = 15.0
	yardsPerTargetWeight   = 1.5
	touchdownWeight        = 12.0
	keyPlayWeight          = 6.0
	targetWeight           = 4.0
	synergyWeight          = 1.0
	dropRateWeight         = 12.0
	loafWeight             = 4.0
	missedAssignmentWeight = 9.0

	yardsPerTargetBaseline = 8.0
	per30Basis             = 30.0
	keyPlayTermCap         = 1.33
	minScore               = 0.0
	maxScore               = 100.0
)

// Thresholds maps a clamped score onto a letter grade. A score at or above
// a threshold earns that letter; anything below D is an F.
type Thresholds struct {
	A float64
	B float64
	C float64
	D float64
}

// DefaultThresholds is the standard 90/80/70/60 scale.
func DefaultThresholds() Thresholds {
	return Thresholds{A: 90, B: 80, C: 70, D: 60}
}

// Option applies a configuration option to the Grader.
type Option func(*Grader)

// WithThresholds overrides the letter-grade thresholds.
func WithThresholds(t Thresholds) Option {
	return func(g *Grader) {
		if t.A >= t.B && t.B >= t.C && t.C >= t.D {
			g.thresholds = t
		}
	}
}

// Grader turns a validated PlayerWeekRecord into a GradeResult. It is pure:
// no I/O, no state beyond configuration, safe for concurrent use.
type Grader struct {
	thresholds Thresholds
}

// New creates a Grader with configuration options.
func New(opts ...Option) *Grader {
	g := &Grader{
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Derive computes the per-record rates the formula consumes. Division by
// zero (no snaps, no targets, no catchable balls) resolves to 0 rather
// than an error; that fallback is deliberate policy, not an omission.
func Derive(r model.PlayerWeekRecord) model.DerivedMetrics {
	return model.DerivedMetrics{
		CatchRate:              safeDiv(float64(r.Catches), float64(r.Catches+r.Drops)),
		DropRate:               safeDiv(float64(r.Drops), float64(r.Catches+r.Drops)),
		YardsPerTarget:         safeDiv(float64(r.RecYards+r.RushYards), float64(r.Targets)),
		TDsPer30:               per30(float64(r.Touchdowns), r.Snaps),
		TargetsPer30:           per30(float64(r.Targets), r.Snaps),
		KeyPlaysPer30:          per30(float64(r.KeyPlays), r.Snaps),
		MissedAssignmentsPer30: per30(float64(r.MissedAssignments), r.Snaps),
		LoafsPer30:             per30(float64(r.Loafs), r.Snaps),
	}
}

// Grade validates the record, derives its metrics and applies the formula.
func (g *Grader) Grade(r model.PlayerWeekRecord) (model.GradeResult, error) {
	if err := r.Validate(); err != nil {
		return model.GradeResult{}, fmt.Errorf("grade: %w", err)
	}

	m := Derive(r)

	yardsRatio := m.YardsPerTarget / yardsPerTargetBaseline

	positive := catchRateWeight*m.CatchRate +
		yardsPerTargetWeight*capAt(yardsRatio, 1) +
		touchdownWeight*capAt(m.TDsPer30/per30Basis, 1) +
		keyPlayWeight*capAt(math.Sqrt(m.KeyPlaysPer30/per30Basis), keyPlayTermCap) +
		targetWeight*capAt(m.TargetsPer30/per30Basis, 1) +
		synergyWeight*capAt(m.CatchRate*yardsRatio, 1)

	negative := dropRateWeight*m.DropRate +
		loafWeight*m.LoafsPer30 +
		missedAssignmentWeight*capAt(m.MissedAssignmentsPer30/per30Basis, 1)

	raw := baseScore + positive - negative
	score := clamp(raw, minScore, maxScore)

	return model.GradeResult{
		RawScore: raw,
		Score:    score,
		Letter:   g.Letter(score),
	}, nil
}

// Metrics exposes Derive under the grader for callers that already hold one.
func (g *Grader) Metrics(r model.PlayerWeekRecord) model.DerivedMetrics {
	return Derive(r)
}

// Letter maps a clamped score onto the configured letter scale.
func (g *Grader) Letter(score float64) string {
	switch {
	case score >= g.thresholds.A:
		return "A"
	case score >= g.thresholds.B:
		return "B"
	case score >= g.thresholds.C:
		return "C"
	case score >= g.thresholds.D:
		return "D"
	default:
		return "F"
	}
}

func safeDiv(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

func per30(n float64, snaps int) float64 {
	if snaps <= 0 {
		return 0
	}
	return n * per30Basis / float64(snaps)
}

func capAt(x, limit float64) float64 {
	return math.Min(x, limit)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
