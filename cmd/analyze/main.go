package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/statement-insight/internal/analytics"
	"github.com/dvloznov/statement-insight/internal/domain"
	"github.com/dvloznov/statement-insight/internal/external"
	"github.com/dvloznov/statement-insight/internal/logger"
	"github.com/dvloznov/statement-insight/internal/pipeline"
	"github.com/dvloznov/statement-insight/internal/source"
	"github.com/dvloznov/statement-insight/internal/store"
)

func main() {
	log := logger.New()

	var (
		dsn       = flag.String("dsn", os.Getenv("DATABASE_DSN"), "database DSN (postgres:// or a SQLite path)")
		docID     = flag.String("document-id", "", "ID of an already registered document to analyze")
		smoothing = flag.Int("trend-smoothing", 0, "per-month offset step applied to the counterparty trend")
	)
	flag.Parse()

	if *docID == "" {
		log.Fatal().Msg("Error: --document-id is required")
	}
	id, err := uuid.Parse(*docID)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --document-id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st, err := store.Open(*dsn, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	if err := st.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	doc, err := st.GetDocument(ctx, id)
	if err != nil {
		log.Fatal().Err(err).Msg("Document not found")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	runner := &pipeline.Runner{
		Source:         source.NewSynthetic(rng, time.Now),
		Signals:        external.NewSynthetic(rng),
		Store:          st,
		Gateway:        analytics.NewModelGateway(rng, time.Now),
		TrendSmoothing: *smoothing,
		Log:            log,
	}

	log.Info().Str("document", doc.DisplayName).Msg("Starting analysis")

	result, err := runner.Run(ctx, doc, "Analysis of "+doc.DisplayName, []store.AuditEntry{
		{Role: domain.RoleUser, Content: fmt.Sprintf("Requested an analysis of %s from the command line.", doc.DisplayName)},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	fmt.Printf("Snapshot %s committed: %d transactions, %d risky.\n",
		result.Snapshot.ID,
		result.Statistics.TotalTransactions,
		result.Statistics.RiskyTransactions)
}
