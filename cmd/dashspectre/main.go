package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dashspectre/dashspectre/internal/app"
	"github.com/dashspectre/dashspectre/internal/logging"
)

var (
	version    = "1.0.0"
	verbose    bool
	isFirstRun bool
)

// Exit codes for structured error reporting.
const (
	ExitSuccess    = 0
	ExitInternal   = 1
	ExitInvalidArg = 2
	ExitNotFound   = 3
	ExitNetwork    = 5
	ExitNoExports  = 6
)

// NoExportsError indicates the run completed but no panel produced
// exportable data.
type NoExportsError struct {
	Panels int
}

func (e *NoExportsError) Error() string {
	return fmt.Sprintf("no exportable data across %d panels", e.Panels)
}

func main() {
	logging.Init(false)
	isFirstRun = app.IsFirstRun()

	root := &cobra.Command{
		Use:   "dashspectre",
		Short: "Dashboard query collector and exporter",
		Long: `DashSpectre executes the queries of a dashboard definition, classifies
each panel's results into a chart shape, and exports the data as CSV.

It also serves collected results over HTTP with per-panel data, export
and action-layout endpoints.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(NewQueryCmd())
	root.AddCommand(NewExportCmd())
	root.AddCommand(NewPreviewCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewVersionCmd())

	if err := root.Execute(); err != nil {
		exitCode := classifyError(err)
		var ne *NoExportsError
		if errors.As(err, &ne) {
			slog.Info("nothing exported", slog.Int("panels", ne.Panels))
		} else {
			slog.Error("command failed", slog.String("error", err.Error()))
		}
		os.Exit(exitCode)
	}
}

func classifyError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ne *NoExportsError
	if errors.As(err, &ne) {
		return ExitNoExports
	}

	if os.IsNotExist(err) {
		return ExitNotFound
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "not a directory") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such file") ||
		strings.Contains(msg, "not found") {
		return ExitNotFound
	}

	if strings.Contains(msg, "dial") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "network is unreachable") {
		return ExitNetwork
	}

	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "must be") ||
		strings.Contains(msg, "expected") {
		return ExitInvalidArg
	}

	return ExitInternal
}
