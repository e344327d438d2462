// Package main provides the pdf_assembler command: an interactive editor for
// combining pages of PDF documents, and an HTTP server for the same page
// operations.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pdf_assembler/editor"
	"pdf_assembler/menu"
	"pdf_assembler/pdf"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pdf_assembler [files...]",
	Short: "Assemble, reorder, crop and scale pages from PDF documents",
	Long: `pdf_assembler combines pages from several PDF documents into a single file.

Run without a subcommand it starts an interactive menu. PDF files given as
arguments are loaded before the menu opens.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $HOME/.config/pdf_assembler/config.yml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, logrus.WarnLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	eng := pdf.NewPdfcpuEngine(pdf.EngineConfig{
		TempDir:       cfg.TempDir,
		Workers:       cfg.Workers,
		ViewerTimeout: cfg.ViewerTimeout,
		Progress:      cmd.ErrOrStderr(),
		Logger:        log,
	})
	manager := pdf.NewManager(eng, pdf.ManagerOptions{
		TempDir:  cfg.TempDir,
		Optimize: cfg.OptimizeOnSave,
		Logger:   log,
	})
	defer func() {
		if err := manager.Close(); err != nil {
			log.WithError(err).Warn("failed to remove preview file")
		}
	}()

	console := menu.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
	ed := editor.New(cmd.Context(), console, manager, log)
	if err := ed.AddPaths(args...); err != nil {
		return err
	}

	err = ed.Run()
	if errors.Is(err, menu.ErrInputClosed) {
		return nil
	}
	return err
}
