package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"earnings/internal/core"
	"earnings/internal/earnings"
)

type earningList struct {
	Earnings []core.Earning  `json:"earnings"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// parseFilter reads ?category= and ?range=. Blank and "all" match everything,
// an unknown range behaves as "all" and an unknown category matches nothing.
func parseFilter(r *http.Request) earnings.Filter {
	q := r.URL.Query()
	return earnings.Filter{
		Category: core.Category(strings.TrimSpace(q.Get("category"))),
		Range:    earnings.DateRange(strings.TrimSpace(q.Get("range"))),
	}
}

func (s *Server) handleListEarnings(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Earnings.Filtered(r.Context(), parseFilter(r))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if list == nil {
		list = []core.Earning{}
	}
	writeJSON(w, http.StatusOK, earningList{Earnings: list, Total: earnings.Total(list), Count: len(list)})
}

func (s *Server) handleCreateEarning(w http.ResponseWriter, r *http.Request) {
	var in core.Earning
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := s.deps.Service.Add(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleGetEarning(w http.ResponseWriter, r *http.Request) {
	e, ok, err := s.deps.Earnings.Get(r.Context(), mux.Vars(r)["id"])
	switch {
	case err != nil:
		writeFailure(w, r, err)
	case !ok:
		writeError(w, http.StatusNotFound, "earning not found")
	default:
		writeJSON(w, http.StatusOK, e)
	}
}

func (s *Server) handleUpdateEarning(w http.ResponseWriter, r *http.Request) {
	var patch core.EarningPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	res, ok, err := s.deps.Service.Update(r.Context(), mux.Vars(r)["id"], patch)
	switch {
	case err != nil:
		writeFailure(w, r, err)
	case !ok:
		writeError(w, http.StatusNotFound, "earning not found")
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleDeleteEarning(w http.ResponseWriter, r *http.Request) {
	ok, err := s.deps.Service.Delete(r.Context(), mux.Vars(r)["id"])
	switch {
	case err != nil:
		writeFailure(w, r, err)
	case !ok:
		writeError(w, http.StatusNotFound, "earning not found")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
