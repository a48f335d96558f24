package http

import (
	"context"
	"net/http"
	"time"

	"rentabilidad/internal/core"
	"rentabilidad/internal/stats"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the storage backend and reports cache and limiter state.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]any{}
	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["storage"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}
	checks["stats_cache_entries"] = s.statsCache.Size()
	checks["rate_limited_clients"] = s.rateLimiter.ActiveClients()
	m := s.tracer.Metrics()
	checks["requests_total"] = m.TotalRequests
	checks["requests_failed"] = m.FailedRequests

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleExpenseCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.ExpenseCategories())
}

type calculatorResponse struct {
	Result *core.QuickResult `json:"result"`
}

// handleCalculator runs the stateless quick calculator. An incomplete form
// yields {"result": null}.
func (s *Server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	var in stats.QuickInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, "calculator", err)
		return
	}
	in.ProductName = sanitizeInput(in.ProductName)
	res, err := stats.QuickCalculate(in)
	if err != nil {
		writeError(w, r, "calculator", err)
		return
	}
	writeJSON(w, http.StatusOK, calculatorResponse{Result: res})
}
