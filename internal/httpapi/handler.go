package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"TrendingNews/internal/domain"
	"TrendingNews/internal/usecase"
)

// Service is what the HTTP layer needs from the pipeline.
type Service interface {
	Run(ctx context.Context) (usecase.RunReport, error)
	Snapshot(ctx context.Context) ([]domain.Record, error)
}

// Handler serves the snapshot and triggers pipeline runs.
type Handler struct {
	service Service
	logger  *slog.Logger

	// running guards against overlapping updates racing on the ledger.
	running sync.Mutex
}

// NewHandler wires the service.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, logger: logger}
}

type fetchResponse struct {
	Success bool            `json:"success"`
	Data    []domain.Record `json:"data"`
}

type statusResponse struct {
	Success bool `json:"success"`
}

// Router builds the mux with all routes registered.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)
	r.HandleFunc("/fetch_data", h.FetchData).Methods(http.MethodGet)
	r.HandleFunc("/update_data", h.UpdateData).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	return r
}

// FetchData returns the current snapshot.
func (h *Handler) FetchData(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.logger.Warn("fetch_data failed", "err", err)
		writeJSON(w, statusResponse{Success: false})
		return
	}
	if records == nil {
		records = []domain.Record{}
	}
	writeJSON(w, fetchResponse{Success: true, Data: records})
}

// UpdateData runs the pipeline synchronously; a second concurrent call fails fast.
func (h *Handler) UpdateData(w http.ResponseWriter, r *http.Request) {
	if !h.running.TryLock() {
		h.logger.Warn("update_data rejected, run already in progress")
		writeJSON(w, statusResponse{Success: false})
		return
	}
	defer h.running.Unlock()

	// A dropped client connection should not abandon a half-finished run.
	report, err := h.service.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		h.logger.Error("update_data failed", "run_id", report.RunID, "err", err)
		writeJSON(w, statusResponse{Success: false})
		return
	}

	writeJSON(w, statusResponse{Success: true})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug("request served", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
