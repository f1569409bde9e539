package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/marketlink/internal/config"
	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/ingest"
	"github.com/sawpanic/marketlink/internal/telemetry"
	"github.com/sawpanic/marketlink/internal/venue"
)

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch markets from every enabled venue and upsert them",
		RunE:  runIngest,
	}
	cmd.Flags().StringSlice("venues", []string{"kalshi", "polymarket"}, "Venues to ingest")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	venues, _ := cmd.Flags().GetStringSlice("venues")
	metrics := telemetry.NewRegistry()
	syncs, err := buildVenueSyncs(d.provider, venues, metrics)
	if err != nil {
		return err
	}

	runner := ingest.New(d.manager.Repository().Markets, d.manager.Repository().Ingestion, metrics)
	results := runner.SyncAll(cmd.Context(), syncs)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Error().Err(r.Err).Str("venue", string(r.Venue)).Msg("venue ingestion failed")
			continue
		}
		fmt.Printf("%-12s pages=%-4d upserted=%-6d cursor=%s\n", r.Venue, r.Pages, r.Upserted, r.Cursor)
	}
	if failed == len(results) && len(results) > 0 {
		return fmt.Errorf("all %d venue ingestions failed", failed)
	}
	return nil
}

// buildVenueSyncs constructs a VenueClient for each requested venue name
// from its provider config, skipping any venue the config disables.
func buildVenueSyncs(providers *config.ProvidersConfig, venueNames []string, metrics *telemetry.Registry) ([]ingest.VenueSync, error) {
	var syncs []ingest.VenueSync
	for _, name := range venueNames {
		pc, ok := providers.GetProvider(name)
		if !ok {
			return nil, fmt.Errorf("no provider config for venue %q", name)
		}
		if !pc.Enabled {
			log.Info().Str("venue", name).Msg("venue disabled in providers config, skipping")
			continue
		}

		var v domain.Venue
		var client domain.VenueClient
		switch name {
		case "kalshi":
			v = domain.VenueKalshi
			client = venue.NewKalshiClient(*pc, metrics)
		case "polymarket":
			v = domain.VenuePolymarket
			client = venue.NewPolymarketClient(*pc, metrics)
		default:
			return nil, fmt.Errorf("unsupported venue %q", name)
		}
		syncs = append(syncs, ingest.VenueSync{Venue: v, Client: client})
	}
	return syncs, nil
}
