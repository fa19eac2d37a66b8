// Package app wires the grading pipeline: read film sheets, normalize
// records, grade them, and write the result artifacts.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldvision/filmgrade/internal/adapters/csvio"
	"github.com/fieldvision/filmgrade/internal/adapters/report"
	"github.com/fieldvision/filmgrade/internal/domain/aggregate"
	"github.com/fieldvision/filmgrade/internal/domain/codes"
	"github.com/fieldvision/filmgrade/internal/domain/grading"
	"github.com/fieldvision/filmgrade/internal/domain/model"
	"github.com/fieldvision/filmgrade/internal/domain/prep"
	"github.com/fieldvision/filmgrade/pkg/logger"
	"github.com/fieldvision/filmgrade/pkg/metrics"
)

// Service runs grading batches. Records are pure functions of themselves,
// so the pipeline is a plain synchronous loop; there is nothing to lock
// and nothing to cancel mid-record.
type Service struct {
	grader       *grading.Grader
	interpreter  *codes.Interpreter
	groupBy      aggregate.GroupKey
	writeReports bool

	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLegend sets the code legend the interpreter resolves against.
func WithLegend(l codes.Legend) Option {
	return func(s *Service) {
		if len(l.Rules) > 0 {
			s.interpreter = codes.NewInterpreter(l)
		}
	}
}

// WithThresholds overrides the grader's letter scale.
func WithThresholds(t grading.Thresholds) Option {
	return func(s *Service) {
		s.grader = grading.New(grading.WithThresholds(t))
	}
}

// WithGroupBy sets the summary grouping key.
func WithGroupBy(key aggregate.GroupKey) Option {
	return func(s *Service) {
		if key != "" {
			s.groupBy = key
		}
	}
}

// WithReports enables or disables the player-facing text reports.
func WithReports(enabled bool) Option {
	return func(s *Service) {
		s.writeReports = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets a custom metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New creates a Service with configuration options.
func New(opts ...Option) *Service {
	s := &Service{
		grader:       grading.New(),
		interpreter:  codes.NewInterpreter(codes.Standard()),
		groupBy:      aggregate.ByPlayer,
		writeReports: true,
		metrics:      metrics.Global(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Result collects everything one grading run produced.
type Result struct {
	RunID       string
	Rows        []model.GradedRecord
	Summaries   []aggregate.Summary
	Skipped     []csvio.RowError
	ResultsPath string
	SummaryPath string
	ReportPaths []string
}

// Run grades one input sheet and writes the detailed results CSV, the
// grouped summary CSV and (optionally) per-player-week reports under
// outDir. outFile may be absolute; otherwise it lands inside outDir.
func (s *Service) Run(ctx context.Context, inputPath, outDir, outFile string) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.Named("run")

	log.Info(ctx, "grading batch started",
		logger.String("run_id", runID),
		logger.String("input", inputPath),
		logger.String("rubric", s.interpreter.Legend().Version))

	records, skipped, err := csvio.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	for _, rowErr := range skipped {
		s.metrics.RecordSkipped()
		log.Warn(ctx, "record excluded from batch",
			logger.String("run_id", runID),
			logger.Int("line", rowErr.Line),
			logger.String("field", rowErr.Field),
			logger.Error(rowErr.Err))
	}

	rows := s.GradeAll(ctx, records)

	summaries, err := aggregate.GroupBy(rows, s.groupBy)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	res := &Result{
		RunID:     runID,
		Rows:      rows,
		Summaries: summaries,
		Skipped:   skipped,
	}

	res.ResultsPath = outFile
	if !filepath.IsAbs(outFile) {
		res.ResultsPath = filepath.Join(outDir, filepath.Base(outFile))
	}
	if err := csvio.WriteResultsFile(res.ResultsPath, rows); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	res.SummaryPath = summaryPath(res.ResultsPath)
	if err := csvio.WriteSummaryFile(res.SummaryPath, s.groupBy, summaries); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	if s.writeReports {
		w := report.New(s.interpreter.Legend(), s.grader.Letter)
		paths, err := w.WriteAll(filepath.Join(outDir, "reports"), aggregate.ByPlayerWeek(rows))
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		res.ReportPaths = paths
	}

	s.metrics.RunCompleted(time.Since(start))
	log.Info(ctx, "grading batch finished",
		logger.String("run_id", runID),
		logger.Int("graded", len(rows)),
		logger.Int("skipped", len(skipped)),
		logger.String("results", res.ResultsPath),
		logger.String("summary", res.SummaryPath))
	return res, nil
}

// GradeAll runs the per-record pipeline: interpret codes, apply the
// pre-grading normalization, grade. Records that fail validation are
// dropped with a warning; the batch always proceeds.
func (s *Service) GradeAll(ctx context.Context, records []model.PlayerWeekRecord) []model.GradedRecord {
	rows := make([]model.GradedRecord, 0, len(records))
	for _, rec := range records {
		summary := s.interpreter.Interpret(rec.Codes)
		normalized := prep.Normalize(rec, summary)

		grade, err := s.grader.Grade(normalized)
		if err != nil {
			s.metrics.RecordSkipped()
			s.logger.Warn(ctx, "record failed grading",
				logger.String("player", rec.Player),
				logger.Int("week", rec.Week),
				logger.Error(err))
			continue
		}

		s.metrics.RecordGraded(grade.Score)
		s.metrics.AddCodePoints(summary.Points)
		s.metrics.AddUnmatchedCodes(summary.Unmatched)

		rows = append(rows, model.GradedRecord{
			Record:  normalized,
			Metrics: grading.Derive(normalized),
			Grade:   grade,
			Codes:   summary,
		})
	}
	return rows
}

// summaryPath derives results_summary.csv from the results path.
func summaryPath(resultsPath string) string {
	ext := filepath.Ext(resultsPath)
	stem := strings.TrimSuffix(resultsPath, ext)
	return stem + "_summary" + ext
}
