package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dvloznov/statement-insight/internal/analytics"
	"github.com/dvloznov/statement-insight/internal/external"
	"github.com/dvloznov/statement-insight/internal/logger"
	"github.com/dvloznov/statement-insight/internal/pipeline"
	"github.com/dvloznov/statement-insight/internal/source"
	"github.com/dvloznov/statement-insight/internal/store"
)

func main() {
	log := logger.New()

	var (
		dsn  = flag.String("dsn", os.Getenv("DATABASE_DSN"), "database DSN (postgres:// or a SQLite path)")
		seed = flag.Bool("seed", true, "seed the demo snapshot when the history is empty")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.Open(*dsn, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	if err := st.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Msg("Schema migrated")

	if *seed {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		runner := &pipeline.Runner{
			Source:  source.NewSynthetic(rng, time.Now),
			Signals: external.NewSynthetic(rng),
			Store:   st,
			Gateway: analytics.NewModelGateway(rng, time.Now),
			Log:     log,
		}
		if err := runner.EnsureDemo(ctx); err != nil {
			log.Fatal().Err(err).Msg("Demo seed failed")
		}
	}

	fmt.Println("Migration completed successfully.")
}
