package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"katha/internal/core"
	"katha/internal/ledger"
	"katha/internal/log"
	"katha/internal/sheets/xlsx"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady runs every registered dependency check.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			checks[name] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	snap := s.svc.Snapshot()
	checks["ledger"] = fmt.Sprintf("ok (revision %d)", snap.Revision)

	NewResponse().Status(code).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	snap := s.svc.Snapshot()

	fmt.Fprintf(w, "# HELP ledger_revision Current snapshot revision\n")
	fmt.Fprintf(w, "# TYPE ledger_revision gauge\n")
	fmt.Fprintf(w, "ledger_revision %d\n\n", snap.Revision)

	fmt.Fprintf(w, "# HELP ledger_kathas Kathas in the snapshot\n")
	fmt.Fprintf(w, "# TYPE ledger_kathas gauge\n")
	fmt.Fprintf(w, "ledger_kathas %d\n\n", len(snap.Kathas))

	fmt.Fprintf(w, "# HELP ledger_entries Entries in the snapshot\n")
	fmt.Fprintf(w, "# TYPE ledger_entries gauge\n")
	fmt.Fprintf(w, "ledger_entries %d\n\n", len(snap.Entries))

	stats := s.svc.CacheStats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(w, "# HELP view_cache_hits_total View cache hits\n")
	fmt.Fprintf(w, "# TYPE view_cache_hits_total counter\n")
	for _, name := range names {
		fmt.Fprintf(w, "view_cache_hits_total{view=%q} %d\n", name, stats[name].Hits)
	}
	fmt.Fprintf(w, "\n# HELP view_cache_misses_total View cache misses\n")
	fmt.Fprintf(w, "# TYPE view_cache_misses_total counter\n")
	for _, name := range names {
		fmt.Fprintf(w, "view_cache_misses_total{view=%q} %d\n", name, stats[name].Misses)
	}

	fmt.Fprintf(w, "\n# HELP rate_limit_hits_total Requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", atomic.LoadInt64(&s.metrics.rateLimitHits))

	fmt.Fprintf(w, "# HELP suspicious_requests_total Suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", atomic.LoadInt64(&s.metrics.suspiciousRequests))

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n", s.rateLimiter.ActiveClients())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Dashboard(selectedKatha(r))
	if err != nil {
		s.fail(w, r, err, log.OpRead)
		return
	}
	NewResponse().JSON(d).Write(w)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ, err := ledger.ParseTypeFilter(q.Get("type"))
	if err != nil {
		BadRequestError("Unknown entry type filter").Write(w)
		return
	}
	v, err := s.svc.Ledger(selectedKatha(r), ledger.LedgerFilter{Type: typ, Query: searchQuery(q.Get("q"))})
	if err != nil {
		s.fail(w, r, err, log.OpList)
		return
	}
	NewResponse().JSON(v).Write(w)
}

func (s *Server) handleListKathas(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Kathas(selectedKatha(r))
	if err != nil {
		s.fail(w, r, err, log.OpList)
		return
	}
	NewResponse().JSON(v).Write(w)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Insights(selectedKatha(r))
	if err != nil {
		s.fail(w, r, err, log.OpRead)
		return
	}
	NewResponse().JSON(v).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 8
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			BadRequestError("limit must be between 1 and 50").Write(w)
			return
		}
		limit = n
	}
	NewResponse().JSON(s.svc.Categories(sanitizeInput(q.Get("q")), limit)).Write(w)
}

// handleExportXLSX streams the whole ledger as an Excel workbook.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	wb := s.svc.Workbook()
	var buf bytes.Buffer
	if err := xlsx.Write(&buf, wb, s.sheetNames[0], s.sheetNames[1]); err != nil {
		s.fail(w, r, err, log.OpExport)
		return
	}
	name := fmt.Sprintf("katha-ledger-%s.xlsx", s.svc.Today())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleCreateKatha(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}

	k, err := s.svc.CreateKatha(r.Context(), core.KathaInput{
		Name:              p.Get("name"),
		GoalAmount:        p.Get("goalAmount"),
		DailyContribution: p.Get("dailyContribution"),
		Members:           p.Get("members"),
		StartDate:         p.Get("startDate"),
		Description:       p.Get("description"),
	})
	if err != nil {
		s.fail(w, r, err, log.OpCreate)
		return
	}
	NewResponse().Status(http.StatusCreated).
		Header("Location", "/api/kathas?katha="+k.ID).
		JSON(k).
		Write(w)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}

	e, err := s.svc.RecordEntry(r.Context(), core.EntryInput{
		KathaID:  p.Get("kathaId"),
		Date:     p.Get("date"),
		Amount:   p.Get("amount"),
		Type:     p.Get("type"),
		Category: p.Get("category"),
		Note:     p.Get("note"),
	}, selectedKatha(r))
	if err != nil {
		s.fail(w, r, err, log.OpCreate)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(e).Write(w)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.DeleteEntry(r.Context(), id); err != nil {
		s.fail(w, r, err, log.OpDelete)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail writes the response for err. Only unexpected errors are logged as
// errors; domain rejections are the client's concern.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	resp := errorResponseFor(err)
	if resp.status >= http.StatusInternalServerError {
		s.slog.LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op,
			log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", "", ""))
	} else if !errors.Is(err, core.ErrEntryNotFound) {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Request rejected",
			log.FieldOperation, op, log.FieldError, err.Error())
	}
	resp.Write(w)
}

// selectedKatha is the katha the client is focused on, if any.
func selectedKatha(r *http.Request) string {
	return sanitizeInput(r.URL.Query().Get("katha"))
}
