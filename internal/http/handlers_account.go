package http

import (
	"fmt"
	"net/http"

	"earnings/internal/core"
	"earnings/internal/goals"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Store.Profile(r.Context())
	respond(w, r, v, err)
}

func (s *Server) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	var patch core.ProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	v, err := s.deps.Service.UpdateProfile(r.Context(), patch)
	respond(w, r, v, err)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Store.Settings(r.Context())
	respond(w, r, v, err)
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var patch core.SettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	v, err := s.deps.Service.UpdateSettings(r.Context(), patch)
	respond(w, r, v, err)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Goals.Achievements(r.Context())
	respond(w, r, v, err)
}

func (s *Server) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.Goals.CheckAchievements(r.Context())
	if v == nil {
		v = []goals.Achievement{}
	}
	respond(w, r, map[string]any{"unlocked": v}, err)
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.Backup.Export(r.Context())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="earnings-backup-%s.json"`, core.DateOf(s.deps.Store.Now())))
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r, maxBackupBytes)
	if !ok {
		return
	}
	doc, err := s.deps.Backup.Import(r.Context(), raw)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":      doc.Profile != nil,
		"earnings":     len(doc.Earnings),
		"settings":     doc.Settings != nil,
		"achievements": doc.Achievements != nil,
	})
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Backup.Clear(r.Context()); err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	buf, err := s.deps.Export.EarningsXLSX(r.Context(), parseFilter(r))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="earnings-%s.xlsx"`, core.DateOf(s.deps.Store.Now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf)
}
