package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/engine"
	"github.com/sawpanic/marketlink/internal/pipeline"
	"github.com/sawpanic/marketlink/internal/telemetry"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one cross-venue matching pass across every registered topic",
		RunE:  runScan,
	}
	cmd.Flags().String("left", "kalshi", "Left-side venue")
	cmd.Flags().String("right", "polymarket", "Right-side venue")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	left, _ := cmd.Flags().GetString("left")
	right, _ := cmd.Flags().GetString("right")

	registry := pipeline.DefaultRegistry()
	repo := d.manager.Repository()
	e := engine.New(d.engine, registry, repo.Markets, repo.Links).WithMetrics(telemetry.NewRegistry())

	summary := e.Run(cmd.Context(), domain.Venue(left), domain.Venue(right))

	var anyErr error
	for _, res := range summary.TopicResults {
		if res.Err != nil {
			anyErr = res.Err
			log.Error().Err(res.Err).Str("topic", string(res.Topic)).Msg("topic run failed")
			continue
		}
		fmt.Printf("%-18s left=%-5d right=%-5d tried=%-6d suggested=%-5d auto_confirmed=%-5d auto_rejected=%-5d brackets_dropped=%d\n",
			res.Topic, res.LeftCount, res.RightCount, res.CandidatesTried, res.Suggested, res.AutoConfirmed, res.AutoRejected, res.BracketsDropped)
	}
	if anyErr != nil {
		return fmt.Errorf("one or more topics failed: %w", anyErr)
	}
	return nil
}
