package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Durga-Talluri/cloudops-pro/pkg/costs"
	"github.com/Durga-Talluri/cloudops-pro/pkg/fixtures"
	"github.com/Durga-Talluri/cloudops-pro/pkg/generator"
	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Run an AI cost analysis and print the narrated insights",
	Long: `Run the same cost analysis the dashboard shows, without starting the server.
The narrator needs an API key (narrator.api_key or OPENAI_API_KEY); without one
the fallback text is printed.`,
	RunE: runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().StringP("range", "r", costs.Range7d, "Time range (7d, 30d, 90d)")
	insightsCmd.Flags().Bool("no-predictions", false, "Exclude predicted costs")
}

func runInsights(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	timeRange, _ := cmd.Flags().GetString("range")
	noPredictions, _ := cmd.Flags().GetBool("no-predictions")

	ds, err := fixtures.Load()
	if err != nil {
		return err
	}
	n, err := initNarrator(cfg, nil, logger)
	if err != nil {
		return err
	}

	svc := costs.NewService(ds.CostHistory, ds.Optimizations, generator.New(cfg.Generator.Seed), logger, costs.WithNarrator(n))
	req := costs.DefaultRequest()
	req.TimeRange = timeRange
	req.IncludePredictions = !noPredictions

	printAnalysis(cmd.OutOrStdout(), costs.NormalizeRange(timeRange), svc.Analyze(cmd.Context(), req))
	return nil
}

func printAnalysis(out io.Writer, timeRange string, a model.CostAnalysis) {
	fmt.Fprintf(out, "=== AI Cost Analysis (%s) ===\n", timeRange)
	fmt.Fprintf(out, "Current Cost:   $%.2f\n", a.CurrentCost)
	fmt.Fprintf(out, "Previous Cost:  $%.2f\n", a.PreviousCost)
	fmt.Fprintf(out, "Change:         %+.2f%%\n", a.ChangePercent)
	fmt.Fprintf(out, "Total Savings:  $%.2f\n", a.TotalSavings)

	if len(a.OptimizationSuggestions) > 0 {
		fmt.Fprintf(out, "\nOptimizations:\n")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  TITLE\tCATEGORY\tIMPACT\tSAVINGS\n")
		for _, o := range a.OptimizationSuggestions {
			fmt.Fprintf(w, "  %s\t%s\t%s\t$%.2f\n", o.Title, o.Category, o.Impact, o.Savings)
		}
		w.Flush()
	}

	fmt.Fprintf(out, "\nInsights:\n%s\n", a.AIInsights)
}
