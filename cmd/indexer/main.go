// Command indexer rebuilds the Typesense suggest collection from the
// published physician records in PostgreSQL. Run it after bulk imports or
// when the collection schema changes.
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/allergycanada/find-allergist/backend/internal/adapters/database"
	"github.com/allergycanada/find-allergist/backend/internal/adapters/search"
	"github.com/allergycanada/find-allergist/backend/internal/domain/repositories"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/clients/postgres"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/clients/typesense"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/observability"
	"github.com/allergycanada/find-allergist/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("find-allergist-indexer", cfg.Server.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Typesense client")
	}

	physicianAdapter := database.NewPhysicianAdapter(pgClient)
	indexAdapter := search.NewTypesenseAdapter(typesenseClient)

	if err := indexAdapter.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to init Typesense schema")
	}

	physicians, err := physicianAdapter.List(ctx, repositories.PhysicianFilter{PublishedOnly: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list physicians")
	}

	indexed := 0
	for _, physician := range physicians {
		if err := indexAdapter.Index(ctx, physician); err != nil {
			log.Error().Err(err).Str("physician_id", physician.ID).Msg("failed to index physician")
			continue
		}
		indexed++
	}

	log.Info().Int("indexed", indexed).Int("total", len(physicians)).Msg("reindex complete")
}
