package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avelasq/wifisentry/internal/adapters/reporting"
	"github.com/avelasq/wifisentry/internal/core/domain"
	"github.com/avelasq/wifisentry/internal/core/services/monitor"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// handleScan runs one on-demand scan cycle and returns the annotated batch
// together with any threats the pass raised.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	networks, threats, err := s.Monitor.RunOnce(r.Context())
	if err != nil {
		http.Error(w, "Scan failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"networks": networks,
		"threats":  threats,
	})
}

func (s *Server) handleMonitorStart(w http.ResponseWriter, r *http.Request) {
	// The loop must outlive this request; Stop cancels it.
	if err := s.Monitor.Start(context.Background()); err != nil {
		if errors.Is(err, monitor.ErrAlreadyRunning) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleMonitorStop(w http.ResponseWriter, r *http.Request) {
	if err := s.Monitor.Stop(); err != nil {
		if errors.Is(err, monitor.ErrNotRunning) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (s *Server) handleMonitorStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"running":    s.Monitor.Running(),
		"scan_count": s.Monitor.ScanCount(),
		"ws_clients": s.WSManager.ClientCount(),
	})
}

type failureRequest struct {
	SSID   string `json:"ssid"`
	BSSID  string `json:"bssid"`
	Reason string `json:"reason"`
}

// handleRecordFailure feeds a connection failure event into the session.
func (s *Server) handleRecordFailure(w http.ResponseWriter, r *http.Request) {
	var req failureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SSID == "" && req.BSSID == "" {
		http.Error(w, "ssid or bssid required", http.StatusBadRequest)
		return
	}

	s.Monitor.RecordConnectionFailure(req.SSID, req.BSSID, req.Reason)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

func (s *Server) handleListThreats(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	threats, err := s.Threats.ListThreats(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to load threats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, threats)
}

func (s *Server) handleThreatStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Threats.ThreatStats(r.Context())
	if err != nil {
		http.Error(w, "Failed to load stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	summaries, err := s.Threats.ListScanSummaries(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to load summaries: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func listKind(r *http.Request) (domain.ListKind, error) {
	kind := domain.ListKind(mux.Vars(r)["kind"])
	switch kind {
	case domain.ListWhitelist, domain.ListBlacklist:
		return kind, nil
	}
	return "", fmt.Errorf("unknown list kind %q", mux.Vars(r)["kind"])
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	kind, err := listKind(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	entries, err := s.Lists.Entries(r.Context(), kind)
	if err != nil {
		http.Error(w, "Failed to load list: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"kind": kind, "entries": entries})
}

type listAddRequest struct {
	BSSID string `json:"bssid"`
}

func (s *Server) handleListAdd(w http.ResponseWriter, r *http.Request) {
	kind, err := listKind(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var req listAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BSSID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.Lists.Add(r.Context(), kind, req.BSSID); err != nil {
		http.Error(w, "Failed to add entry: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

func (s *Server) handleListRemove(w http.ResponseWriter, r *http.Request) {
	kind, err := listKind(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := s.Lists.Remove(r.Context(), kind, mux.Vars(r)["bssid"]); err != nil {
		http.Error(w, "Failed to remove entry: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// handleDownloadReport renders the current threat log as a PDF.
func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Threats.ThreatStats(r.Context())
	if err != nil {
		http.Error(w, "Failed to load stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	threats, err := s.Threats.ListThreats(r.Context(), 100)
	if err != nil {
		http.Error(w, "Failed to load threats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	summaries, err := s.Threats.ListScanSummaries(r.Context(), 20)
	if err != nil {
		http.Error(w, "Failed to load summaries: "+err.Error(), http.StatusInternalServerError)
		return
	}

	pdf, err := s.Exporter.Export(reporting.ThreatReport{
		GeneratedAt: time.Now(),
		Stats:       stats,
		Threats:     threats,
		Summaries:   summaries,
	})
	if err != nil {
		http.Error(w, "Failed to generate report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("threat-report-%s.pdf", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
