// CarpetFit finds collision-free positions for a rectangular footprint on a
// sheet that already holds obstacles.
//
// Usage:
//
//	carpetfit [-config path] [-log-level level] [-log-format json|console] <command> [flags]
//
// Commands:
//
//	run     -request req.yaml [-out report.json] [-pdf layout.pdf] [-labels labels.pdf] [-xlsx report.xlsx] [-compare]
//	import  -in obstacles.{csv,xlsx,dxf} -out snapshot.json [-sheet-label l -sheet-width w -sheet-height h]
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/piwi3910/CarpetFit/internal/export"
	"github.com/piwi3910/CarpetFit/internal/logging"
	"github.com/piwi3910/CarpetFit/internal/model"
	"github.com/piwi3910/CarpetFit/internal/project"
	"github.com/piwi3910/CarpetFit/internal/runner"
)

const maxRecentRequests = 10

var errUsage = errors.New("usage: carpetfit [global flags] run|import [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		os.Exit(1)
	}
}

// run parses global flags, sets up config and logging, and dispatches to a
// command. Errors are logged before being returned.
func run(args []string, stdout io.Writer) error {
	global := flag.NewFlagSet("carpetfit", flag.ContinueOnError)
	configPath := global.String("config", project.DefaultConfigPath(), "Config file (JSON or YAML)")
	logLevel := global.String("log-level", "", "Log level: debug|info|warn|error (overrides config)")
	logFormat := global.String("log-format", "", "Log format: json|console (overrides config)")
	if err := global.Parse(args); err != nil {
		return err
	}

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "carpetfit: %v\n", err)
		return err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "carpetfit: %v\n", err)
		return err
	}
	defer func() { _ = logger.Sync() }()

	rest := global.Args()
	if len(rest) == 0 {
		logger.Error("no command given", zap.Error(errUsage))
		return errUsage
	}

	switch rest[0] {
	case "run":
		err = runCommand(rest[1:], cfg, *configPath, logger, stdout)
	case "import":
		err = importCommand(rest[1:], logger, stdout)
	default:
		err = fmt.Errorf("unknown command %q: %w", rest[0], errUsage)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", rest[0]), zap.Error(err))
	}
	return err
}

func runCommand(args []string, cfg model.AppConfig, configPath string, logger *zap.Logger, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	requestPath := fs.String("request", "", "Request file (JSON or YAML)")
	outPath := fs.String("out", "", "Report file (JSON or YAML); stdout when empty")
	pdfPath := fs.String("pdf", "", "Write a PDF layout of the sheet")
	labelsPath := fs.String("labels", "", "Write QR-coded placement labels as PDF")
	xlsxPath := fs.String("xlsx", "", "Write the report as an Excel workbook")
	compare := fs.Bool("compare", false, "Also search at half and double the grid size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *requestPath == "" {
		return fmt.Errorf("run: -request is required")
	}

	req, err := project.LoadRequest(*requestPath)
	if err != nil {
		return err
	}

	if *compare {
		req.Compare = true
	}

	report, err := runner.New(cfg, logger).Run(req)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		logger.Warn(w)
	}

	if *outPath != "" {
		if err := project.SaveReport(*outPath, report); err != nil {
			return err
		}
		printSummary(stdout, report)
	} else {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if *pdfPath != "" {
		if err := export.ExportPDF(*pdfPath, report); err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
		logger.Info("layout written", zap.String("path", *pdfPath))
	}
	if *labelsPath != "" {
		if err := export.ExportLabels(*labelsPath, report); err != nil {
			logger.Warn("labels skipped", zap.Error(err))
		} else {
			logger.Info("labels written", zap.String("path", *labelsPath))
		}
	}
	if *xlsxPath != "" {
		if err := export.ExportExcel(*xlsxPath, report); err != nil {
			return fmt.Errorf("failed to export workbook: %w", err)
		}
		logger.Info("workbook written", zap.String("path", *xlsxPath))
	}

	rememberRequest(cfg, configPath, *requestPath, logger)
	return nil
}

// rememberRequest records the request in the recent list of an existing
// config file. A missing config file is left missing.
func rememberRequest(cfg model.AppConfig, configPath, requestPath string, logger *zap.Logger) {
	if _, err := os.Stat(configPath); err != nil {
		return
	}
	if abs, err := filepath.Abs(requestPath); err == nil {
		requestPath = abs
	}
	cfg.AddRecentRequest(requestPath, maxRecentRequests)
	if err := project.SaveAppConfig(configPath, cfg); err != nil {
		logger.Warn("failed to update recent requests", zap.Error(err))
	}
}

func printSummary(w io.Writer, report model.Report) {
	if report.Search != nil && report.Search.Found {
		fmt.Fprintf(w, "placed at (%.2f, %.2f), candidate %d of %d\n",
			report.Search.Position.X, report.Search.Position.Y, report.Search.Index+1, report.Search.Candidates)
	} else {
		fmt.Fprintln(w, "no position found")
	}
	if len(report.Batch) > 0 {
		fmt.Fprintf(w, "batch: %d of %d positions fit\n", report.FitCount(), len(report.Batch))
	}
	if len(report.Queries) > 0 {
		colliding := 0
		for _, q := range report.Queries {
			if q.Collides {
				colliding++
			}
		}
		fmt.Fprintf(w, "queries: %d of %d collide\n", colliding, len(report.Queries))
	}
}

func importCommand(args []string, logger *zap.Logger, stdout io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	inPath := fs.String("in", "", "Obstacle file (CSV, Excel or DXF)")
	outPath := fs.String("out", "", "Snapshot file (JSON or YAML)")
	sheetLabel := fs.String("sheet-label", "", "Label of the sheet stored with the snapshot")
	sheetWidth := fs.Float64("sheet-width", 0, "Sheet width in mm stored with the snapshot")
	sheetHeight := fs.Float64("sheet-height", 0, "Sheet height in mm stored with the snapshot")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return fmt.Errorf("import: -in and -out are required")
	}

	snap, warnings, err := runner.ImportSnapshot(*inPath)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}
	if *sheetWidth > 0 && *sheetHeight > 0 {
		sheet := model.NewSheet(*sheetLabel, *sheetWidth, *sheetHeight)
		snap.Sheet = &sheet
	}
	if err := project.ExportSnapshot(*outPath, snap); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%d obstacles written to %s\n", len(snap.Obstacles), *outPath)
	return nil
}
