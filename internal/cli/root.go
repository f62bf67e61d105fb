// Package cli contains the Cobra command tree for insightsctl.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/boddenberg/retail-insights/internal/app"
	"github.com/boddenberg/retail-insights/internal/config"
	"github.com/boddenberg/retail-insights/internal/infra/observability"
	"github.com/boddenberg/retail-insights/internal/output"
	"github.com/boddenberg/retail-insights/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalFlags struct {
	config  string
	json    bool
	noColor bool
	verbose bool
}

// NewRootCmd builds the insightsctl command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "insightsctl",
		Short: "Query retail customer and product insights",
		Long: `insightsctl reads the same store as the insights API and prints
customer profiles, product profiles, anomalies, trends and the business
overview as tables or JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "Config file path (yaml, json, toml or .env)")
	pf.BoolVar(&flags.json, "json", false, "Output as JSON")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&flags.verbose, "verbose", false, "Log store activity to stderr")

	root.AddCommand(
		newAnomaliesCmd(flags),
		newTrendsCmd(flags),
		newCustomerCmd(flags),
		newProductCmd(flags),
		newOverviewCmd(flags),
	)
	return root
}

// Execute is the entry point called from main.
func Execute(version string) {
	root := NewRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type runFunc func(ctx context.Context, cfg *config.Config, svc *service.InsightsService) error

// run loads configuration, opens the store and hands the service to fn.
func (f *globalFlags) run(cmd *cobra.Command, fn runFunc) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if f.noColor {
		output.SetNoColor(true)
	}

	logger := zap.NewNop()
	if f.verbose {
		logger = observability.NewLogger("debug")
	}
	defer logger.Sync()

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), cfg, a.Service)
}

// emit writes v as indented JSON when --json is set, otherwise calls table.
func (f *globalFlags) emit(w io.Writer, v any, table func(io.Writer)) error {
	if f.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	table(w)
	return nil
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}
