package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hisab/internal/amqp"
	"hisab/internal/core"
	"hisab/internal/report"
)

// ownerHeader identifies the authenticated user. Authentication itself is
// terminated upstream; the API trusts this header.
const ownerHeader = "X-User-ID"

func ownerID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(ownerHeader))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func windowQueryFromRequest(r *http.Request) core.WindowQuery {
	q := r.URL.Query()
	return core.WindowQuery{
		Filter:    strings.TrimSpace(q.Get("filter")),
		Date:      strings.TrimSpace(q.Get("date")),
		From:      strings.TrimSpace(q.Get("from")),
		To:        strings.TrimSpace(q.Get("to")),
		WeekStart: strings.TrimSpace(q.Get("weekStart")),
	}
}

func appliedFromQuery(q core.WindowQuery) report.Applied {
	return report.Applied{
		Filter:    q.Filter,
		Date:      q.Date,
		From:      q.From,
		To:        q.To,
		WeekStart: q.WeekStart,
	}
}

// buildSummary resolves the window from the request and runs the aggregation.
func (s *Server) buildSummary(w http.ResponseWriter, r *http.Request) (report.Summary, bool) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+ownerHeader+" header")
		return report.Summary{}, false
	}

	q := windowQueryFromRequest(r)
	window, err := core.ResolveWindow(q, time.Now())
	if err != nil {
		var invalid *core.InvalidDateFormatError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Error())
			return report.Summary{}, false
		}
		slog.ErrorContext(r.Context(), "Window resolution error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return report.Summary{}, false
	}

	summary, err := s.aggregator.Aggregate(r.Context(), owner, window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard aggregation error", "error", err, "owner", owner)
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return report.Summary{}, false
	}

	return summary.WithMeta(window, appliedFromQuery(q)), true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	summary, ok := s.buildSummary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDashboardReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	summary, ok := s.buildSummary(w, r)
	if !ok {
		return
	}

	pdfBytes, err := s.renderer.Render(summary, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Report rendering error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard-report.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}

type scheduleRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleScheduleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.queue == nil {
		writeError(w, http.StatusServiceUnavailable, "report scheduling is not configured")
		return
	}

	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+ownerHeader+" header")
		return
	}

	var body scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !strings.Contains(body.Email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email address is required")
		return
	}

	q := windowQueryFromRequest(r)
	// Validate the dates now so a bad request fails here, not in the worker.
	if _, err := core.ResolveWindow(q, time.Now()); err != nil {
		var invalid *core.InvalidDateFormatError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Error())
			return
		}
	}

	msg := amqp.NewReportRequest(owner, body.Email)
	msg.Filter = q.Filter
	msg.Date = q.Date
	msg.From = q.From
	msg.To = q.To
	msg.WeekStart = q.WeekStart

	if err := s.queue.PublishReportRequest(r.Context(), msg); err != nil {
		slog.ErrorContext(r.Context(), "Report schedule publish error", "error", err, "owner", owner)
		writeError(w, http.StatusInternalServerError, "failed to schedule report")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "report scheduled"})
}
