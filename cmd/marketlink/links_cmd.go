package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/marketlink/internal/domain"
)

func linksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Inspect and maintain market_links suggestions",
	}
	cmd.AddCommand(linksListCmd())
	cmd.AddCommand(linksCleanupCmd())
	return cmd
}

func linksListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List current link suggestions above a score floor",
		RunE:  runLinksList,
	}
	cmd.Flags().Float64("min-score", 0, "Minimum score to include")
	cmd.Flags().String("status", "", "Filter by status (suggested|confirmed|rejected)")
	cmd.Flags().Int("limit", 100, "Maximum rows to return")
	cmd.Flags().String("format", "", "Output format: table or json (default: table on a TTY, json otherwise)")
	return cmd
}

// outputFormat resolves the --format flag, defaulting to json when stdout
// isn't a terminal so piped/scripted callers get machine-readable output
// without asking for it.
func outputFormat(cmd *cobra.Command) string {
	f, _ := cmd.Flags().GetString("format")
	if f != "" {
		return f
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "table"
	}
	return "json"
}

func runLinksList(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	minScore, _ := cmd.Flags().GetFloat64("min-score")
	statusStr, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := domain.ListSuggestionsOptions{MinScore: minScore, Limit: limit}
	if statusStr != "" {
		s := domain.LinkStatus(statusStr)
		opts.Status = &s
	}

	links, err := d.manager.Repository().Links.ListSuggestions(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("listing suggestions: %w", err)
	}

	if outputFormat(cmd) == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(links)
	}

	for _, l := range links {
		fmt.Printf("%-6d %-10s %-6d <-> %-10s %-6d topic=%-18s score=%.3f status=%-10s reason=%s\n",
			l.ID, l.LeftVenue, l.LeftMarketID, l.RightVenue, l.RightMarketID, l.Topic, l.Score, l.Status, l.Reason)
	}
	fmt.Printf("%d suggestion(s)\n", len(links))
	return nil
}

func linksCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete stale suggestions older than a given age",
		RunE:  runLinksCleanup,
	}
	cmd.Flags().Int("older-than-days", 30, "Delete suggestions last updated before this many days ago")
	cmd.Flags().String("status", string(domain.LinkSuggested), "Status to target")
	cmd.Flags().String("algo-version", "", "Restrict cleanup to a specific algo version")
	cmd.Flags().Bool("dry-run", true, "Report what would be deleted without deleting")
	return cmd
}

func runLinksCleanup(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	olderThanDays, _ := cmd.Flags().GetInt("older-than-days")
	statusStr, _ := cmd.Flags().GetString("status")
	algoVersion, _ := cmd.Flags().GetString("algo-version")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	n, err := d.manager.Repository().Links.CleanupSuggestions(cmd.Context(), domain.CleanupSuggestionsOptions{
		OlderThanDays: olderThanDays,
		Status:        domain.LinkStatus(statusStr),
		AlgoVersion:   algoVersion,
		DryRun:        dryRun,
	})
	if err != nil {
		return fmt.Errorf("cleaning up suggestions: %w", err)
	}
	if dryRun {
		fmt.Printf("%d suggestion(s) would be deleted (dry run)\n", n)
	} else {
		fmt.Printf("%d suggestion(s) deleted\n", n)
	}
	return nil
}
