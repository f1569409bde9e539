package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/marketlink/internal/telemetry"
	"github.com/sawpanic/marketlink/internal/watchlist"
)

func watchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Watchlist population commands",
	}
	cmd.AddCommand(watchlistSyncCmd())
	return cmd
}

func watchlistSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Recompute and upsert the watchlist from current MarketLink state",
		RunE:  runWatchlistSync,
	}
}

func runWatchlistSync(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	repo := d.manager.Repository()
	b := watchlist.New(d.engine.Watchlist, repo.Links, repo.Watchlist).WithMetrics(telemetry.NewRegistry())

	n, err := b.Sync(cmd.Context())
	if err != nil {
		return fmt.Errorf("syncing watchlist: %w", err)
	}
	fmt.Printf("watchlist synced: %d items\n", n)
	return nil
}
