package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/boddenberg/retail-insights/internal/config"
	"github.com/boddenberg/retail-insights/internal/domain"
	"github.com/boddenberg/retail-insights/internal/output"
	"github.com/boddenberg/retail-insights/internal/service"

	"github.com/spf13/cobra"
)

func newCustomerCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "customer <id>",
		Short: "Show a customer profile with LTV score and insights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("customer", args[0])
			if err != nil {
				return err
			}
			return flags.run(cmd, func(ctx context.Context, _ *config.Config, svc *service.InsightsService) error {
				profile, err := svc.GetCustomerProfile(ctx, id)
				if err != nil {
					return err
				}
				return flags.emit(cmd.OutOrStdout(), profile, func(w io.Writer) {
					printCustomer(w, profile)
				})
			})
		},
	}
}

func printCustomer(w io.Writer, p *domain.CustomerProfile) {
	fmt.Fprintln(w, output.StyleHeader.Render(fmt.Sprintf("%s (#%d)", p.Customer.CustomerName, p.Customer.CustomerID)))
	output.KeyValue(w, "Region", p.Customer.Region)
	output.KeyValue(w, "Industry", p.Customer.Industry)
	output.KeyValue(w, "Joined", p.Customer.JoinDate)

	output.Section(w, "Sales")
	output.KeyValue(w, "Purchases", strconv.Itoa(p.SalesSummary.TotalPurchases))
	output.KeyValue(w, "Total spent", output.Amount(p.SalesSummary.TotalSpent))
	output.KeyValue(w, "Avg order value", output.Optional(p.SalesSummary.AvgOrderValue))
	output.KeyValue(w, "LTV score", output.Amount(p.SalesSummary.LTVScore))

	output.Section(w, "Support")
	printSupport(w, p.SupportSummary)

	output.Section(w, "Insights")
	if len(p.AIInsights) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render("(none)"))
	}
	for _, msg := range p.AIInsights {
		fmt.Fprintln(w, output.StyleWarning.Render("• ")+msg)
	}
}

func printSupport(w io.Writer, s domain.SupportSummary) {
	output.KeyValue(w, "Tickets", strconv.Itoa(s.TotalTickets))
	output.KeyValue(w, "Avg sentiment", output.Optional(s.AvgSentiment))
	output.KeyValue(w, "Open issues", strconv.Itoa(s.OpenIssues))
}

func newProductCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show a product profile with repeat buyers and co-purchases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			return flags.run(cmd, func(ctx context.Context, _ *config.Config, svc *service.InsightsService) error {
				profile, err := svc.GetProductProfile(ctx, id)
				if err != nil {
					return err
				}
				return flags.emit(cmd.OutOrStdout(), profile, func(w io.Writer) {
					printProduct(w, profile)
				})
			})
		},
	}
}

func printProduct(w io.Writer, p *domain.ProductProfile) {
	fmt.Fprintln(w, output.StyleHeader.Render(fmt.Sprintf("%s (#%d)", p.Product.ProductName, p.Product.ProductID)))
	output.KeyValue(w, "Category", p.Product.Category)
	output.KeyValue(w, "Price", output.Amount(p.Product.SalesPrice))

	output.Section(w, "Sales")
	output.KeyValue(w, "Sales", strconv.Itoa(p.SalesSummary.TotalSales))
	output.KeyValue(w, "Revenue", output.Amount(p.SalesSummary.TotalRevenue))
	output.KeyValue(w, "Avg sale value", output.Optional(p.SalesSummary.AvgSaleValue))

	output.Section(w, "Support")
	printSupport(w, p.SupportSummary)

	output.Section(w, "Top customers")
	printBuyers(w, p.TopCustomers)

	output.Section(w, "Frequently bought together")
	tbl := output.NewTable("ID", "Product", "Category", "Purchases", "Price")
	for _, r := range p.FrequentlyBoughtTogether {
		tbl.AddRow(
			strconv.FormatInt(r.ProductID, 10),
			r.ProductName,
			r.Category,
			strconv.Itoa(r.PurchaseCount),
			output.Amount(r.SalesPrice),
		)
	}
	tbl.Fprint(w)
}

func printBuyers(w io.Writer, buyers []domain.CustomerPurchases) {
	tbl := output.NewTable("ID", "Customer", "Purchases", "Spent")
	for _, b := range buyers {
		tbl.AddRow(
			strconv.FormatInt(b.CustomerID, 10),
			b.CustomerName,
			strconv.Itoa(b.PurchaseCount),
			output.Optional(b.TotalSpent),
		)
	}
	tbl.Fprint(w)
}

func newOverviewCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show the business-wide dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.run(cmd, func(ctx context.Context, _ *config.Config, svc *service.InsightsService) error {
				ov, err := svc.GetOverview(ctx)
				if err != nil {
					return err
				}
				return flags.emit(cmd.OutOrStdout(), ov, func(w io.Writer) {
					printOverview(w, ov)
				})
			})
		},
	}
}

func printOverview(w io.Writer, ov *domain.Overview) {
	output.Section(w, "Sales")
	output.KeyValue(w, "Transactions", strconv.Itoa(ov.SalesOverview.TotalSales))
	output.KeyValue(w, "Revenue", output.Amount(ov.SalesOverview.TotalRevenue))
	output.KeyValue(w, "Avg sale value", output.Amount(ov.SalesOverview.AvgSaleValue))
	for _, p := range ov.SalesOverview.SalesTrend {
		output.KeyValue(w, "  "+p.Date, output.Amount(p.Amount))
	}

	output.Section(w, "Customers")
	output.KeyValue(w, "Customers", strconv.Itoa(ov.CustomerOverview.TotalCustomers))
	output.KeyValue(w, "New this month", strconv.Itoa(ov.CustomerOverview.NewCustomersThisMonth))
	printBuyers(w, ov.CustomerOverview.TopCustomers)

	output.Section(w, "Products")
	output.KeyValue(w, "Products", strconv.Itoa(ov.ProductOverview.TotalProducts))
	output.KeyValue(w, "Avg price", output.Amount(ov.ProductOverview.AvgProductPrice))
	for _, b := range ov.ProductOverview.BestSellingProduct {
		output.KeyValue(w, "Best seller", fmt.Sprintf("%s (%s)", b.ProductName, output.Amount(b.Revenue)))
	}
	for _, p := range ov.ProductOverview.MostProblematicProduct {
		output.KeyValue(w, "Most tickets", fmt.Sprintf("%s (%d)", p.ProductName, p.IssueCount))
	}

	output.Section(w, "Support")
	output.KeyValue(w, "Tickets", strconv.Itoa(ov.SupportOverview.TotalTickets))
	output.KeyValue(w, "Avg sentiment", output.Optional(ov.SupportOverview.AvgSentiment))
	for _, s := range ov.SupportOverview.SupportStatusBreakdown {
		output.KeyValue(w, "  "+s.Status, strconv.Itoa(s.Count))
	}
}
