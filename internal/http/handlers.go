package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"financepro/internal/ledger"
	"financepro/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the store and reports limiter state.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]any{}
	if err := s.svc.Ready(ctx); err != nil {
		checks["storage"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.activeClients(),
		"rejected":       s.rateLimiter.rejected(),
	}
	checks["suspicious_requests"] = atomic.LoadInt64(&s.suspicious)

	writeJSON(w, r, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"revision":  s.svc.Ledger().Revision(),
		"checks":    checks,
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	done, err := s.svc.OnboardingComplete(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	st, rev := s.svc.Snapshot()
	writeJSON(w, r, http.StatusOK, snapshotResponse{
		Revision:           rev,
		OnboardingComplete: done,
		State:              st,
		Budget:             ledger.BudgetTargets(st),
		LiquidTotal:        st.LiquidTotal(),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	drift, rev := s.svc.Verify()
	if len(drift) > 0 {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Ledger aggregates drifted from history",
			log.FieldRevision, rev, "fields", len(drift))
	}
	writeJSON(w, r, http.StatusOK, newDriftResponse(drift, rev))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	opts, err := parseReportOptions(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	st, rev := s.svc.Snapshot()
	body, err := s.reports.Render(st, rev, opts)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.reports.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil && !errors.Is(err, context.Canceled) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to write report", log.FieldError, err)
	}
}
