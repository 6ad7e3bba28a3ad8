// Package handlers implements the HTTP API: analysis summary, statement
// uploads, transaction exports and job management.
package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-insight/internal/api/middleware"
	"github.com/dvloznov/statement-insight/internal/blob"
	"github.com/dvloznov/statement-insight/internal/domain"
	"github.com/dvloznov/statement-insight/internal/export"
	"github.com/dvloznov/statement-insight/internal/jobs"
	"github.com/dvloznov/statement-insight/internal/pipeline"
	"github.com/dvloznov/statement-insight/internal/store"
)

// maxUploadBytes bounds how much of an uploaded statement is read.
const maxUploadBytes = 20 << 20

// snapshotHeader is the compact snapshot listing returned alongside payloads.
type snapshotHeader struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

func headersOf(snapshots []store.AnalysisSnapshot) []snapshotHeader {
	headers := make([]snapshotHeader, 0, len(snapshots))
	for _, s := range snapshots {
		headers = append(headers, snapshotHeader{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt})
	}
	return headers
}

// writeDomainError maps pipeline failures onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSourceUnavailable):
		middleware.WriteError(w, http.StatusBadGateway, "transaction source unavailable")
	case errors.Is(err, domain.ErrMalformedRecord), errors.Is(err, domain.ErrValidation):
		middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, store.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "not found")
	default:
		middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// AnalysisHandler serves the dashboard summary.
type AnalysisHandler struct {
	store  *store.Store
	runner *pipeline.Runner
	log    zerolog.Logger
}

// NewAnalysisHandler creates the analysis handler.
func NewAnalysisHandler(st *store.Store, runner *pipeline.Runner, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{store: st, runner: runner, log: log}
}

// Summary handles GET /api/analysis/summary. An empty history is seeded with
// the demo snapshot first, so the dashboard always has data to show.
func (h *AnalysisHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshot, err := h.store.LatestSnapshot(ctx)
	if errors.Is(err, store.ErrNotFound) {
		if err := h.runner.EnsureDemo(ctx); err != nil {
			h.log.Error().Err(err).Msg("Failed to seed demo snapshot")
			writeDomainError(w, err)
			return
		}
		snapshot, err = h.store.LatestSnapshot(ctx)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load latest snapshot")
		writeDomainError(w, err)
		return
	}

	payload, err := store.DecodePayload(snapshot)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to decode snapshot payload")
		middleware.WriteError(w, http.StatusInternalServerError, "corrupt snapshot payload")
		return
	}

	snapshots, err := h.store.ListSnapshots(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list snapshots")
		writeDomainError(w, err)
		return
	}

	// history is the snapshot's audit trail, the conversation the analysis
	// was committed with.
	messages, err := h.store.SnapshotMessages(ctx, snapshot.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load audit trail")
		writeDomainError(w, err)
		return
	}

	response := map[string]interface{}{
		"payload":   payload,
		"history":   messages,
		"snapshot":  snapshot,
		"snapshots": headersOf(snapshots),
	}
	if stats, err := h.store.SnapshotStatistics(ctx, snapshot.ID); err == nil {
		response["statistics"] = stats
	}

	middleware.WriteJSON(w, http.StatusOK, response)
}

// UploadsHandler accepts statement uploads and lists uploaded documents.
type UploadsHandler struct {
	store  *store.Store
	blobs  blob.Store
	runner *pipeline.Runner
	log    zerolog.Logger
}

// NewUploadsHandler creates the uploads handler.
func NewUploadsHandler(st *store.Store, blobs blob.Store, runner *pipeline.Runner, log zerolog.Logger) *UploadsHandler {
	return &UploadsHandler{store: st, blobs: blobs, runner: runner, log: log}
}

// List handles GET /api/uploads.
func (h *UploadsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	documents, err := h.store.ListDocuments(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list documents")
		writeDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

// Upload handles POST /api/uploads. The statement is archived to blob
// storage, registered, and analyzed synchronously; the response carries the
// fresh payload so the client can render it without a second round trip.
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "file required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read upload")
		middleware.WriteError(w, http.StatusBadRequest, "unreadable file")
		return
	}

	fileName := filepath.Base(header.Filename)
	if fileName == "" || fileName == "." {
		fileName = "statement.csv"
	}
	kind := domain.DetectKind(fileName)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("uploads/%s/%s-%s", time.Now().Format("2006/01/02"), uuid.NewString(), fileName)
	uri, err := h.blobs.Save(ctx, objectName, bytes.NewReader(data), contentType)
	if err != nil {
		h.log.Error().Err(err).Str("object", objectName).Msg("Failed to archive upload")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	cols, rows := previewStats(kind, data)
	doc := &store.UploadedDocument{
		DisplayName:     fileName,
		Kind:            kind,
		Source:          "File upload",
		BlobURI:         uri,
		MimeType:        contentType,
		DetectedColumns: cols,
		DetectedRows:    rows,
		PreviewNotes:    pipeline.BuildPreviewNotes(fileName),
	}
	if err := h.store.CreateDocument(ctx, doc); err != nil {
		h.log.Error().Err(err).Msg("Failed to register document")
		writeDomainError(w, err)
		return
	}

	result, err := h.runner.Run(ctx, doc, "Analysis of "+fileName, []store.AuditEntry{
		{Role: domain.RoleUser, Content: fmt.Sprintf("Uploaded %s for analysis.", fileName)},
		{Role: domain.RoleAssistant, Content: "Analyzed the statement, built the charts and segmented the counterparties."},
	})
	if err != nil {
		h.log.Error().Err(err).Str("document_id", doc.ID.String()).Msg("Analysis run failed")
		writeDomainError(w, err)
		return
	}

	snapshots, err := h.store.ListSnapshots(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list snapshots")
		writeDomainError(w, err)
		return
	}

	messages, err := h.store.SnapshotMessages(ctx, result.Snapshot.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load audit trail")
		writeDomainError(w, err)
		return
	}

	updated, err := h.store.GetDocument(ctx, doc.ID)
	if err != nil {
		updated = doc
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"document":   updated,
		"analysis":   result.Payload,
		"history":    messages,
		"snapshots":  headersOf(snapshots),
		"statistics": result.Statistics,
	})
}

// previewStats inspects the raw upload for the document card. Only CSV
// content is parsed; binary formats report zero until the model sees them.
func previewStats(kind domain.DocumentKind, data []byte) (cols, rows int) {
	if kind != domain.KindCSV {
		return 0, 0
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(records) == 0 {
		return 0, 0
	}
	cols = len(records[0])
	rows = len(records) - 1
	if rows < 0 {
		rows = 0
	}
	return cols, rows
}

// ExportsHandler streams the latest snapshot's transactions as downloads.
type ExportsHandler struct {
	store *store.Store
	log   zerolog.Logger
}

// NewExportsHandler creates the exports handler.
func NewExportsHandler(st *store.Store, log zerolog.Logger) *ExportsHandler {
	return &ExportsHandler{store: st, log: log}
}

func (h *ExportsHandler) latestBatch(w http.ResponseWriter, r *http.Request) ([]domain.TransactionRecord, bool) {
	snapshot, err := h.store.LatestSnapshot(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "no analysis snapshot yet")
		} else {
			h.log.Error().Err(err).Msg("Failed to load latest snapshot")
			writeDomainError(w, err)
		}
		return nil, false
	}
	payload, err := store.DecodePayload(snapshot)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to decode snapshot payload")
		middleware.WriteError(w, http.StatusInternalServerError, "corrupt snapshot payload")
		return nil, false
	}
	return payload.Transactions, true
}

// CSV handles GET /api/exports/csv.
func (h *ExportsHandler) CSV(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.latestBatch(w, r)
	if !ok {
		return
	}

	fileName := "transactions_" + time.Now().Format("20060102") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)

	if err := export.WriteCSV(w, batch); err != nil {
		h.log.Error().Err(err).Msg("Failed to stream CSV export")
	}
}

// Excel handles GET /api/exports/excel.
func (h *ExportsHandler) Excel(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.latestBatch(w, r)
	if !ok {
		return
	}

	fileName := "transactions_" + time.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)

	if err := export.WriteExcel(w, batch); err != nil {
		h.log.Error().Err(err).Msg("Failed to stream Excel export")
	}
}

// JobsHandler enqueues background analyses and exposes job status.
type JobsHandler struct {
	store     *store.Store
	jobStore  jobs.JobStore
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewJobsHandler creates the jobs handler.
func NewJobsHandler(st *store.Store, jobStore jobs.JobStore, publisher jobs.Publisher, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: st, jobStore: jobStore, publisher: publisher, log: log}
}

// EnqueueAnalysis handles POST /api/analyses/run. It accepts a document ID
// and schedules an asynchronous analysis run for it.
func (h *JobsHandler) EnqueueAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		DocumentID string `json:"document_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "document_id is required")
		return
	}

	doc, err := h.store.GetDocument(ctx, docID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	job := &jobs.AnalyzeDocumentJob{
		DocumentID:   doc.ID.String(),
		DocumentName: doc.DisplayName,
	}
	if err := h.publisher.PublishAnalyzeDocument(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue analysis job")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to enqueue job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("document_id", job.DocumentID).Msg("Analysis job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":      job.JobID,
		"document_id": job.DocumentID,
		"status":      string(job.Status),
	})
}

// GetJob handles GET /api/jobs/{id}.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.jobStore.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		DocumentID: query.Get("document_id"),
		Status:     jobs.JobStatus(query.Get("status")),
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.jobStore.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
