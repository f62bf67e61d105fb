package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/boddenberg/retail-insights/internal/config"
	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/output"
	"github.com/boddenberg/retail-insights/internal/service"

	"github.com/spf13/cobra"
)

func newAnomaliesCmd(flags *globalFlags) *cobra.Command {
	var z float64
	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "List customers with an outlying number of negative tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, func(ctx context.Context, cfg *config.Config, svc *service.InsightsService) error {
				if !cmd.Flags().Changed("z-threshold") {
					z = cfg.AnomalyZThreshold
				}
				anomalies, err := svc.GetAnomalousCustomers(ctx, z)
				if err != nil {
					return err
				}
				return flags.emit(cmd.OutOrStdout(), anomalies, func(w io.Writer) {
					printAnomalies(w, anomalies)
				})
			})
		},
	}
	cmd.Flags().Float64Var(&z, "z-threshold", 0, "Z-score a customer must exceed (default from config)")
	return cmd
}

func printAnomalies(w io.Writer, anomalies []domain.AnomalyEntry) {
	tbl := output.NewTable("ID", "Customer", "Negative tickets", "Z-score")
	for _, a := range anomalies {
		tbl.AddRow(
			strconv.FormatInt(a.CustomerID, 10),
			a.CustomerName,
			strconv.Itoa(a.NegativeTicketCount),
			output.Amount(a.ZScore),
		)
	}
	tbl.Fprint(w)
}

func newTrendsCmd(flags *globalFlags) *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "List products whose latest month moved away from the trailing average",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, func(ctx context.Context, cfg *config.Config, svc *service.InsightsService) error {
				if !cmd.Flags().Changed("threshold") {
					threshold = cfg.TrendThreshold
				}
				trends, err := svc.GetTrendingProducts(ctx, threshold)
				if err != nil {
					return err
				}
				return flags.emit(cmd.OutOrStdout(), trends, func(w io.Writer) {
					output.Section(w, "Rising")
					printTrends(w, trends.RisingTrends)
					output.Section(w, "Falling")
					printTrends(w, trends.FallingTrends)
				})
			})
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Minimum relative change to report (default from config)")
	return cmd
}

func printTrends(w io.Writer, trends []domain.TrendEntry) {
	tbl := output.NewTable("ID", "Product", "Change")
	for _, t := range trends {
		tbl.AddRow(strconv.FormatInt(t.ProductID, 10), t.ProductName, output.Signed(t.Change))
	}
	tbl.Fprint(w)
}
