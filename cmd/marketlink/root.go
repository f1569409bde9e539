package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/marketlink/internal/config"
	"github.com/sawpanic/marketlink/internal/persistence"
)

const version = "v0.1.0"

// Execute builds the marketlink command tree and runs it under ctx.
func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:     "marketlink",
		Short:   "Cross-venue prediction-market matching engine",
		Version: version,
	}

	root.PersistentFlags().String("db-dsn", "", "Postgres connection string (env PG_DSN also honored)")
	root.PersistentFlags().String("providers-config", "config/providers.yaml", "Path to venue provider config")
	root.PersistentFlags().String("engine-config", "config/engine.yaml", "Path to engine config")

	root.AddCommand(ingestCmd())
	root.AddCommand(scanCmd())
	root.AddCommand(watchlistCmd())
	root.AddCommand(linksCmd())
	root.AddCommand(serveCmd())

	return root.ExecuteContext(ctx)
}

// deps bundles the collaborators every subcommand needs, built once from
// flags shared across the command tree.
type deps struct {
	manager  *persistence.Manager
	engine   *config.EngineConfig
	provider *config.ProvidersConfig
}

func buildDeps(cmd *cobra.Command) (*deps, error) {
	dsn, _ := cmd.Flags().GetString("db-dsn")
	providersPath, _ := cmd.Flags().GetString("providers-config")
	enginePath, _ := cmd.Flags().GetString("engine-config")

	dbCfg := persistence.DefaultConfig()
	dbCfg.DSN = dsn
	manager, err := persistence.NewManager(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	engineCfg, err := config.LoadEngineConfig(enginePath)
	if err != nil {
		log.Warn().Err(err).Str("path", enginePath).Msg("falling back to default engine config")
		engineCfg = config.DefaultEngineConfig()
	}

	providersCfg, err := config.LoadProvidersConfig(providersPath)
	if err != nil {
		return nil, fmt.Errorf("loading providers config: %w", err)
	}

	return &deps{manager: manager, engine: engineCfg, provider: providersCfg}, nil
}

func (d *deps) close() {
	if err := d.manager.Close(); err != nil {
		log.Warn().Err(err).Msg("closing database connection")
	}
}

