package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/statement-insight/internal/analytics"
	"github.com/dvloznov/statement-insight/internal/api/handlers"
	"github.com/dvloznov/statement-insight/internal/api/middleware"
	"github.com/dvloznov/statement-insight/internal/blob"
	"github.com/dvloznov/statement-insight/internal/domain"
	"github.com/dvloznov/statement-insight/internal/external"
	"github.com/dvloznov/statement-insight/internal/jobs"
	"github.com/dvloznov/statement-insight/internal/jobs/inmemory"
	"github.com/dvloznov/statement-insight/internal/logger"
	"github.com/dvloznov/statement-insight/internal/pipeline"
	"github.com/dvloznov/statement-insight/internal/source"
	"github.com/dvloznov/statement-insight/internal/store"
)

func main() {
	var (
		port       = flag.String("port", "8080", "HTTP server port")
		dsn        = flag.String("dsn", os.Getenv("DATABASE_DSN"), "database DSN (postgres:// or a SQLite path)")
		bucket     = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for uploaded statements (empty uses local storage)")
		blobDir    = flag.String("blob-dir", "uploads", "local directory for uploaded statements when no bucket is set")
		sourceName = flag.String("source", "synthetic", "transaction source: synthetic or gemini")
		model      = flag.String("model", source.DefaultModelName, "model name for the gemini source")
		smoothing  = flag.Int("trend-smoothing", 0, "per-month offset step applied to the counterparty trend")
		workers    = flag.Int("workers", 2, "background analysis workers")
	)
	flag.Parse()

	log := logger.New()
	ctx := context.Background()

	st, err := store.Open(*dsn, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	if err := st.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	var blobs blob.Store
	if *bucket != "" {
		blobs = blob.NewGCS(*bucket)
		log.Info().Str("bucket", *bucket).Msg("Using GCS blob storage")
	} else {
		local, err := blob.NewLocal(*blobDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare local blob storage")
		}
		blobs = local
		log.Info().Str("dir", *blobDir).Msg("Using local blob storage")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var src source.Source
	switch *sourceName {
	case "gemini":
		src = source.NewGemini(blobs, st, *model)
		log.Info().Str("model", *model).Msg("Using Gemini transaction source")
	case "synthetic":
		src = source.NewSynthetic(rng, time.Now)
	default:
		log.Fatal().Str("source", *sourceName).Msg("Unknown transaction source")
	}

	runner := &pipeline.Runner{
		Source:         src,
		Signals:        external.NewSynthetic(rng),
		Store:          st,
		Gateway:        analytics.NewModelGateway(rng, time.Now),
		TrendSmoothing: *smoothing,
		Log:            log,
	}

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, *workers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		analyzeJob, ok := job.(*jobs.AnalyzeDocumentJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("document_id", analyzeJob.DocumentID).
			Msg("Processing analysis job")

		doc, err := findDocument(ctx, st, analyzeJob.DocumentID)
		if err != nil {
			return err
		}

		result, err := runner.Run(ctx, doc, "Analysis of "+doc.DisplayName, []store.AuditEntry{
			{Role: domain.RoleUser, Content: fmt.Sprintf("Requested a background analysis of %s.", doc.DisplayName)},
		})
		if err != nil {
			log.Error().Err(err).Str("job_id", analyzeJob.JobID).Msg("Analysis job failed")
			return err
		}
		analyzeJob.SnapshotID = result.Snapshot.ID.String()

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("snapshot_id", analyzeJob.SnapshotID).
			Msg("Analysis job completed")
		return nil
	}

	go func() {
		log.Info().Msg("Starting job workers")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job workers stopped with error")
		}
	}()

	analysisHandler := handlers.NewAnalysisHandler(st, runner, log)
	uploadsHandler := handlers.NewUploadsHandler(st, blobs, runner, log)
	exportsHandler := handlers.NewExportsHandler(st, log)
	jobsHandler := handlers.NewJobsHandler(st, jobStore, jobQueue, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/analysis/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analysisHandler.Summary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/api/uploads", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			uploadsHandler.List(w, r)
		case http.MethodPost:
			uploadsHandler.Upload(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/api/exports/csv", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			exportsHandler.CSV(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/api/exports/excel", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			exportsHandler.Excel(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/api/analyses/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			jobsHandler.EnqueueAnalysis(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

func findDocument(ctx context.Context, st *store.Store, id string) (*store.UploadedDocument, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse document id %q: %w", id, err)
	}
	return st.GetDocument(ctx, docID)
}
