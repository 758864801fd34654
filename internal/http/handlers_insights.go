package http

import (
	"net/http"
	"strings"

	"earnings/internal/analytics"
	"earnings/internal/core"
	"earnings/internal/earnings"
)

// respond writes v, or the failure when err is set.
func respond[T any](w http.ResponseWriter, r *http.Request, v T, err error) {
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Earnings.Summary(r.Context())
	respond(w, r, v, err)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Analytics.Compute(r.Context())
	respond(w, r, v, err)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Analytics.Insights(r.Context())
	if v == nil {
		v = []analytics.Insight{}
	}
	respond(w, r, map[string]any{"insights": v}, err)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Analytics.Streak(r.Context())
	respond(w, r, map[string]int{"streak": v}, err)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Goals.Progress(r.Context())
	respond(w, r, v, err)
}

func (s *Server) handleBySource(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Earnings.BySource(r.Context())
	if v == nil {
		v = []earnings.SourceTotal{}
	}
	respond(w, r, v, err)
}

func (s *Server) handleByDate(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 30, 1, 366)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Fields: []string{"days"}})
		return
	}
	v, err := s.deps.Earnings.ByDate(r.Context(), days)
	respond(w, r, v, err)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	months, err := queryInt(r, "months", 6, 1, 120)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Fields: []string{"months"}})
		return
	}
	v, err := s.deps.Earnings.MonthlyTotals(r.Context(), months)
	respond(w, r, v, err)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	period := analytics.Period(strings.TrimSpace(r.URL.Query().Get("period")))
	switch period {
	case "":
		period = analytics.PeriodMonth
	case analytics.PeriodWeek, analytics.PeriodMonth, analytics.PeriodYear:
	default:
		writeFailure(w, r, &core.ValidationError{Fields: []string{"period"}})
		return
	}
	v, err := s.deps.Analytics.Overview(r.Context(), period)
	respond(w, r, v, err)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Dashboard.Snapshot(r.Context())
	respond(w, r, v, err)
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Goals.Tips(r.Context())
	respond(w, r, map[string]any{"tips": v}, err)
}
