package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"github.com/spf13/cobra"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Inspect alerts on a running server",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts",
	RunE:  runAlertsList,
}

var alertsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show alert statistics",
	RunE:  runAlertsStats,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsStatsCmd)

	alertsCmd.PersistentFlags().StringP("server", "s", "http://localhost:8000", "API server base URL")

	alertsListCmd.Flags().String("severity", "", "Filter by severity (critical, warning, info)")
	alertsListCmd.Flags().String("status", "", "Filter by status (active, acknowledged, resolved)")
	alertsListCmd.Flags().IntP("limit", "n", 50, "Maximum alerts to show")
	alertsListCmd.Flags().Int("offset", 0, "Alerts to skip")
}

func runAlertsList(cmd *cobra.Command, _ []string) error {
	base, _ := cmd.Flags().GetString("server")
	severity, _ := cmd.Flags().GetString("severity")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	q := url.Values{}
	if severity != "" {
		q.Set("severity", severity)
	}
	if status != "" {
		q.Set("status", status)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var page model.AlertPage
	if err := getJSON(cmd.Context(), base, "/api/v1/alerts?"+q.Encode(), &page); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Alerts: %d (critical %d, warning %d, info %d)\n\n",
		page.TotalCount, page.CriticalCount, page.WarningCount, page.InfoCount)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSEVERITY\tSTATUS\tRESOURCE\tTITLE\tCREATED\n")
	for _, a := range page.Alerts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Severity, a.Status, a.Resource, a.Title, a.Timestamp.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func runAlertsStats(cmd *cobra.Command, _ []string) error {
	base, _ := cmd.Flags().GetString("server")

	var stats model.AlertStats
	if err := getJSON(cmd.Context(), base, "/api/v1/alerts/summary/stats", &stats); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total:           %d\n", stats.TotalAlerts)
	fmt.Fprintf(out, "Active:          %d\n", stats.ActiveAlerts)
	fmt.Fprintf(out, "Active critical: %d\n", stats.CriticalAlerts)
	fmt.Fprintf(out, "Active warning:  %d\n", stats.WarningAlerts)
	fmt.Fprintf(out, "Resolved today:  %d\n", stats.ResolvedToday)
	return nil
}

// getJSON fetches base+path and decodes a JSON body into v. Error responses
// surface the server's detail message.
func getJSON(ctx context.Context, base, path string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Detail string `json:"detail"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &e) == nil && e.Detail != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Detail)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
