package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/balkashynov/tempus/internal/i18n"
	"github.com/balkashynov/tempus/internal/models"
	"github.com/balkashynov/tempus/internal/parser"
	"github.com/balkashynov/tempus/internal/prefs"
)

type createTaskRequest struct {
	Text        string `json:"text"`
	IsImportant bool   `json:"isImportant"`
	IsUrgent    bool   `json:"isUrgent"`
	// Parse reads +important/+urgent/@qN markers out of Text
	Parse bool `json:"parse"`
}

type createTaskResponse struct {
	Task     models.Task `json:"task"`
	Ack      i18n.Ack    `json:"ack"`
	Warnings []string    `json:"warnings,omitempty"`
	Degraded bool        `json:"degraded"`
}

type textRequest struct {
	Text string `json:"text"`
}

type moveRequest struct {
	Quadrant models.Quadrant `json:"quadrant"`
}

type prefsRequest struct {
	Language *string `json:"language"`
	Theme    *string `json:"theme"`
}

// language picks the acknowledgment language: Accept-Language first, then preferences
func language(r *http.Request) prefs.Language {
	if lang, ok := i18n.Negotiate(r.Header.Get("Accept-Language")); ok {
		return lang
	}
	return prefs.Current().Language
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.store.List()

	if raw := r.URL.Query().Get("quadrant"); raw != "" {
		q, err := models.ParseQuadrant(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, err.Error())
			return
		}
		tasks = models.Partition(tasks).Get(q)
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decode(w, r, &req) {
		return
	}

	var warnings []string
	if req.Parse {
		capture := parser.ParseCapture(req.Text)
		req.Text = capture.Text
		req.IsImportant = req.IsImportant || capture.IsImportant
		req.IsUrgent = req.IsUrgent || capture.IsUrgent
		if capture.Quadrant != "" {
			req.IsImportant, req.IsUrgent = capture.Quadrant.Flags()
		}
		warnings = capture.Errors
	}

	task, err := s.store.Create(r.Context(), req.Text, req.IsImportant, req.IsUrgent)
	if failed(w, err) {
		return
	}

	writeJSON(w, http.StatusCreated, createTaskResponse{
		Task:     task,
		Ack:      i18n.Acknowledge(task, language(r)),
		Warnings: warnings,
		Degraded: err != nil,
	})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.Get(chi.URLParam(r, "taskID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) renameTask(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decode(w, r, &req) {
		return
	}
	task, err := s.store.Rename(r.Context(), chi.URLParam(r, "taskID"), req.Text)
	if failed(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) removeTask(w http.ResponseWriter, r *http.Request) {
	if failed(w, s.store.Remove(r.Context(), chi.URLParam(r, "taskID"))) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.ToggleCompletion(r.Context(), chi.URLParam(r, "taskID"))
	if failed(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) moveTask(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}
	q, err := models.ParseQuadrant(string(req.Quadrant))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	task, err := s.store.MoveToQuadrant(r.Context(), chi.URLParam(r, "taskID"), q)
	if failed(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) addSubTask(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decode(w, r, &req) {
		return
	}
	sub, err := s.store.AddSubTask(r.Context(), chi.URLParam(r, "taskID"), req.Text)
	if failed(w, err) {
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) renameSubTask(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decode(w, r, &req) {
		return
	}
	sub, err := s.store.RenameSubTask(r.Context(), chi.URLParam(r, "taskID"), chi.URLParam(r, "subTaskID"), req.Text)
	if failed(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) toggleSubTask(w http.ResponseWriter, r *http.Request) {
	sub, err := s.store.ToggleSubTask(r.Context(), chi.URLParam(r, "taskID"), chi.URLParam(r, "subTaskID"))
	if failed(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) getMatrix(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Matrix())
}

func (s *Server) sync(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Sync(r.Context()); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, prefs.Current())
}

func (s *Server) putPrefs(w http.ResponseWriter, r *http.Request) {
	var req prefsRequest
	if !decode(w, r, &req) {
		return
	}

	// Validate both before changing either
	if req.Language != nil {
		if _, err := prefs.ParseLanguage(*req.Language); err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, err.Error())
			return
		}
	}
	if req.Theme != nil {
		if _, err := prefs.ParseTheme(*req.Theme); err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, err.Error())
			return
		}
	}

	settings := prefs.Current()
	var err error
	if req.Language != nil {
		if settings, err = prefs.SetLanguage(*req.Language); err != nil {
			s.logger.Warn("failed to save preferences", "error", err)
		}
	}
	if req.Theme != nil {
		if settings, err = prefs.SetTheme(*req.Theme); err != nil {
			s.logger.Warn("failed to save preferences", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, settings)
}
