package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/auditscore/internal/config"
	"github.com/dshills/auditscore/internal/export"
	"github.com/dshills/auditscore/internal/logger"
	"github.com/dshills/auditscore/internal/parser"
	"github.com/dshills/auditscore/internal/redact"
	"github.com/dshills/auditscore/internal/render"
	"github.com/dshills/auditscore/internal/report"
	"github.com/dshills/auditscore/internal/schema"
	"github.com/dshills/auditscore/internal/sheet"
)

type parseFlags struct {
	configPath     string
	format         string
	out            string
	auditType      string
	sheetName      string
	dateOrder      string
	export         string
	redactEnabled  bool
	fatalThreshold int
	failOnFatal    bool
	breakdown      bool
	verbose        bool
}

// runEnv carries what a run writes to and reads the time from.
type runEnv struct {
	out    string
	stdout io.Writer
	log    *logger.Logger
	now    func() time.Time
}

func newParseCmd() *cobra.Command {
	f := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse <sheet>",
		Short: "Parse an .xlsx or .csv audit sheet and score every row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return exitError(3, "failed to load config: %v", err)
			}
			applyFlags(cfg, f, cmd.Flags())
			if err := cfg.Validate(); err != nil {
				return exitError(3, "invalid settings: %v", err)
			}

			mode := cfg.LogMode
			if f.verbose {
				mode = "dev"
			}
			log, err := logger.New(mode)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer log.Sync()

			return runParse(args[0], cfg, runEnv{out: f.out, stdout: os.Stdout, log: log})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "YAML settings file")
	flags.StringVar(&f.format, "format", "json", "Output format: json or md")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.auditType, "type", "", "Audit type: store, ilms or xfe (default: detect from headers)")
	flags.StringVar(&f.sheetName, "sheet", "", "Worksheet to read from a workbook (default: first)")
	flags.StringVar(&f.dateOrder, "date-order", "day_first", "How to read dates like 05/03/2024: day_first or month_first")
	flags.StringVar(&f.export, "export", "", "Also write records to this .xlsx or .csv file")
	flags.BoolVar(&f.redactEnabled, "redact", true, "Mask emails and phone numbers in answers")
	flags.IntVar(&f.fatalThreshold, "fatal-threshold", report.DefaultFatalThreshold, "Scores below this are fatal")
	flags.BoolVar(&f.failOnFatal, "fail-on-fatal", false, "Exit 2 if any audit is fatal")
	flags.BoolVar(&f.breakdown, "breakdown", false, "Include per-category score breakdowns")
	flags.BoolVar(&f.verbose, "verbose", false, "Log processing steps to stderr")

	return cmd
}

// applyFlags copies every explicitly set flag over the file settings.
func applyFlags(cfg *config.Config, f *parseFlags, fs *pflag.FlagSet) {
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("type") {
		cfg.AuditType = f.auditType
	}
	if fs.Changed("sheet") {
		cfg.Sheet = f.sheetName
	}
	if fs.Changed("date-order") {
		cfg.DateOrder = f.dateOrder
	}
	if fs.Changed("export") {
		cfg.Export = f.export
	}
	if fs.Changed("redact") {
		cfg.Redact = f.redactEnabled
	}
	if fs.Changed("fatal-threshold") {
		cfg.FatalThreshold = f.fatalThreshold
	}
	if fs.Changed("fail-on-fatal") {
		cfg.FailOnFatal = f.failOnFatal
	}
	if fs.Changed("breakdown") {
		cfg.Breakdown = f.breakdown
	}
}

func runParse(sheetPath string, cfg *config.Config, env runEnv) error {
	if env.log == nil {
		env.log = logger.Nop()
	}
	if env.stdout == nil {
		env.stdout = os.Stdout
	}
	if env.now == nil {
		env.now = time.Now
	}
	log := env.log

	// 1. Load sheet
	log.Info("loading sheet", "path", sheetPath, "sheet", cfg.Sheet)
	s, err := sheet.Load(sheetPath, cfg.Sheet)
	if err != nil {
		return exitError(3, "failed to load sheet: %v", err)
	}
	log.Info("loaded sheet", "headers", len(s.Headers), "rows", len(s.Rows))

	// 2. Parse rows
	p := parser.New(parser.WithLogger(log), parser.WithClock(env.now), parser.WithDateOrder(cfg.Dates()))
	records, stats := p.ParseRows(s.Rows, s.Headers, cfg.Type())
	log.Info("parsed rows", "type", stats.Type, "detected", stats.Detected,
		"parsed", stats.Parsed, "skipped", stats.Skipped)

	// 3. Assemble report
	rep := report.New("auditscore", version, report.Input{
		File:      filepath.Base(sheetPath),
		Hash:      s.Hash,
		Sheet:     s.Name,
		AuditType: stats.Type,
		Detected:  stats.Detected,
		DateOrder: string(cfg.Dates()),
	}, records, report.Options{
		Rows:           stats.Rows,
		FatalThreshold: cfg.FatalThreshold,
		Breakdowns:     cfg.Breakdown,
		Now:            env.now,
	})

	// 4. Redact after scoring so masking never changes a score
	if cfg.Redact {
		log.Debug("redacting records")
		for i := range rep.Records {
			redact.Record(&rep.Records[i].Record)
		}
	}

	// 5. Validate
	if errs := schema.Validate(rep); len(errs) > 0 {
		for _, e := range errs {
			log.Error("report validation failed", "error", e.Error())
		}
		return exitError(5, "report failed validation with %d errors", len(errs))
	}

	// 6. Output
	var output string
	switch cfg.Format {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		output = string(data) + "\n"
	case "md":
		output = render.Markdown(rep)
	default:
		return exitError(3, "unknown format: %s", cfg.Format)
	}

	if env.out != "" {
		log.Info("writing output", "path", env.out)
		if err := os.WriteFile(env.out, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Fprint(env.stdout, output)
	}

	// 7. Export
	if cfg.Export != "" {
		log.Info("exporting records", "path", cfg.Export)
		if err := export.WriteFile(rep.Records, cfg.Export); err != nil {
			return fmt.Errorf("failed to export records: %w", err)
		}
	}

	// 8. Exit code based on --fail-on-fatal
	if cfg.FailOnFatal && rep.Summary.FatalCount > 0 {
		return exitError(2, "%d of %d audits scored below %d", rep.Summary.FatalCount, rep.Summary.Parsed, cfg.FatalThreshold)
	}

	return nil
}
