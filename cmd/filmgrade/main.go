// Command filmgrade grades weekly film sheets and writes CSV summaries and
// player reports.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/fieldvision/filmgrade/internal/app"
	"github.com/fieldvision/filmgrade/internal/config"
	"github.com/fieldvision/filmgrade/internal/domain/aggregate"
	"github.com/fieldvision/filmgrade/internal/domain/codes"
	"github.com/fieldvision/filmgrade/internal/domain/grading"
	"github.com/fieldvision/filmgrade/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	cliApp := &cli.App{
		Name:  "filmgrade",
		Usage: "grade weekly film for skill-position players from a CSV sheet",
		Commands: []*cli.Command{
			newGradeCommand(),
			newLegendCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Get().Error(context.Background(), "filmgrade failed", logger.Error(err))
		os.Exit(1)
	}
}

func newGradeCommand() *cli.Command {
	return &cli.Command{
		Name:      "grade",
		Usage:     "grade a film sheet and write results, summary and reports",
		ArgsUsage: "<input.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "results CSV filename or path"},
			&cli.StringFlag{Name: "out-dir", Usage: "directory where outputs are written"},
			&cli.StringFlag{Name: "by", Usage: "summary grouping key: player or week"},
			&cli.StringFlag{Name: "rubric", Usage: "built-in legend: standard or extended"},
			&cli.StringFlag{Name: "legend", Usage: "YAML legend file replacing the built-in rubric"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.BoolFlag{Name: "no-reports", Usage: "skip the per-player text reports"},
		},
		Action: runGrade,
	}
}

func runGrade(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one input CSV path, got %d arguments", c.NArg())
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(c, cfg)

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(c.Context, "invalid log level; falling back to info",
			logger.String("log_level", cfg.LogLevel))
	}

	legend, err := resolveLegend(cfg)
	if err != nil {
		return err
	}
	groupBy, err := aggregate.ParseGroupKey(cfg.GroupBy)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(logger.Get()),
		app.WithLegend(legend),
		app.WithGroupBy(groupBy),
		app.WithReports(!c.Bool("no-reports")),
		app.WithThresholds(grading.Thresholds{
			A: cfg.ThresholdA,
			B: cfg.ThresholdB,
			C: cfg.ThresholdC,
			D: cfg.ThresholdD,
		}),
	)

	res, err := svc.Run(c.Context, c.Args().First(), cfg.OutDir, cfg.OutFile)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote detailed results to %s\n", res.ResultsPath)
	fmt.Printf("Wrote summary by %s to %s\n", groupBy, res.SummaryPath)
	if len(res.ReportPaths) > 0 {
		fmt.Printf("Wrote %d player reports\n", len(res.ReportPaths))
	}
	return nil
}

// applyFlags lets explicit CLI flags override the loaded configuration.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("out") {
		cfg.OutFile = c.String("out")
	}
	if c.IsSet("out-dir") {
		cfg.OutDir = c.String("out-dir")
	}
	if c.IsSet("by") {
		cfg.GroupBy = c.String("by")
	}
	if c.IsSet("rubric") {
		cfg.Rubric = c.String("rubric")
	}
	if c.IsSet("legend") {
		cfg.LegendFile = c.String("legend")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
}

func resolveLegend(cfg *config.Config) (codes.Legend, error) {
	if cfg.LegendFile != "" {
		return codes.LoadLegend(cfg.LegendFile)
	}
	return codes.ByName(cfg.Rubric)
}

func newLegendCommand() *cli.Command {
	return &cli.Command{
		Name:  "legend",
		Usage: "print the active code legend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rubric", Usage: "built-in legend: standard or extended"},
			&cli.StringFlag{Name: "legend", Usage: "YAML legend file"},
		},
		Action: func(c *cli.Context) error {
			cfg := config.New()
			if c.IsSet("rubric") {
				cfg.Rubric = c.String("rubric")
			}
			if c.IsSet("legend") {
				cfg.LegendFile = c.String("legend")
			}
			legend, err := resolveLegend(cfg)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(legend.Rules))
			for code := range legend.Rules {
				names = append(names, code)
			}
			sort.Strings(names)

			fmt.Printf("Legend %q\n", legend.Version)
			for _, code := range names {
				rule := legend.Rules[code]
				if rule.PerUnit {
					fmt.Printf("  %-4s %+.1f per unit (matches %s+n)\n", code, rule.Points, code)
					continue
				}
				fmt.Printf("  %-4s %+.1f\n", code, rule.Points)
			}
			return nil
		},
	}
}
