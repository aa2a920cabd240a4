package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/inventory-tag-scanner/internal/config"
	"github.com/ironsheep/inventory-tag-scanner/internal/extract"
	"github.com/ironsheep/inventory-tag-scanner/internal/ledger"
	"github.com/ironsheep/inventory-tag-scanner/internal/ocr/tesseract"
	"github.com/ironsheep/inventory-tag-scanner/internal/scan"
	"github.com/ironsheep/inventory-tag-scanner/internal/tagspec"
)

var (
	cfgFile      string
	specFile     string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "tagscan",
	Short: "Read physical inventory tags into an Excel count sheet",
	Long: `tagscan reads photographed inventory tags with Tesseract, extracts the
book, tag, material, quantity and location fields, and appends verified
records to an Excel workbook.

It runs either as an MCP server over stdio, so an assistant can walk a
counter through scanning and verifying tags, or as a plain command line
tool.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.tagscan/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&specFile, "spec", "", "tag layout file (overrides spec_file in the config)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(specCmd)
	rootCmd.AddCommand(configCmd)
}

// app holds the components commands are built from.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *extract.Engine
}

// loadApp reads configuration and compiles the tag layout.
func loadApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if specFile != "" {
		cfg.SpecFile = specFile
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	spec, err := tagspec.Load(cfg.SpecFile)
	if err != nil {
		return nil, err
	}
	engine, err := extract.New(spec)
	if err != nil {
		return nil, err
	}
	logger.Debug("tagscan.config", "spec_file", cfg.SpecFile, "layout", spec.Layout, "ledger", cfg.Ledger.Path)
	return &app{cfg: cfg, logger: logger, engine: engine}, nil
}

func (a *app) scanService() *scan.Service {
	rec := tesseract.New(tesseract.Options{
		Language:       a.cfg.OCR.Language,
		TessdataPrefix: a.cfg.OCR.TessdataPrefix,
	})
	opts := scan.DefaultOptions()
	opts.Rotations = a.cfg.OCR.Rotations
	opts.MinConfidence = a.cfg.OCR.MinConfidence
	opts.Preprocess = a.cfg.OCR.Preprocess
	return scan.New(a.engine, rec, opts, a.logger)
}

func (a *app) ledger() *ledger.Ledger {
	return ledger.New(a.cfg.Ledger.Path, a.cfg.Ledger.Sheet, a.logger)
}

// output prints data in the format chosen with --output.
func output(cmd *cobra.Command, data any) error {
	return writeOutput(cmd.OutOrStdout(), outputFormat, data)
}

// errorf prints a message to stderr for the user, not the log.
func errorf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}
