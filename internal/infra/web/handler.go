// Package web exposes the tracking callback endpoint and the on-demand
// statistics endpoint over HTTP.
package web

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"seller_notification_service/internal/app"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	trackingSvc app.TrackingService
	statsSvc    app.StatsService
	logger      *log.Logger
}

func NewHandler(trackingSvc app.TrackingService, statsSvc app.StatsService, logger *log.Logger) *Handler {
	return &Handler{trackingSvc: trackingSvc, statsSvc: statsSvc, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/track", h.HandleTrack)
	r.Get("/stats", h.HandleStats)
	r.Get("/health", h.HandleHealth)
	return r
}

// HandleTrack is the open-tracking callback fired by the pixel image load.
// The remote client always receives a 200 with a success-shaped body; the
// recorder decides internally whether anything was actually updated.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	req := app.OpenRequest{
		Token:  r.URL.Query().Get("id"),
		Action: r.URL.Query().Get("action"),
	}
	resp := h.trackingSvc.RecordOpen(r.Context(), req)

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	// The pixel must be re-fetched on every open, never served from cache.
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(resp.Status)
	if _, err := w.Write(resp.Body); err != nil {
		h.logger.Printf("ERROR: Failed to write tracking callback response: %v", err)
	}
}

// HandleStats runs the aggregator on demand and returns the result as JSON.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsSvc.Aggregate(r.Context(), time.Now())
	if err != nil {
		h.logger.Printf("ERROR: Stats aggregation failed: %v", err)
		http.Error(w, "failed to aggregate tracking statistics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Printf("ERROR: Failed to encode stats response: %v", err)
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
