package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/haukeland/stjerne/internal/app"
)

type TaskHandler struct {
	state  *app.State
	logger *slog.Logger
}

func NewTaskHandler(state *app.State, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{state: state, logger: logger}
}

type taskRequest struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Points int    `json:"points"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validPoints(req.Points); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.state.AddTask(r.PathValue("child_id"), req.Name, req.Icon, req.Points)
	if err != nil {
		h.logger.Error("add task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add task")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.state.DeleteTask(r.PathValue("child_id"), r.PathValue("id"))
	if err != nil {
		h.logger.Error("delete task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete marks the task done and reports the new balance and any bonus.
// Completing an already-completed task conflicts rather than double-pays.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	res, err := h.state.CompleteTask(r.PathValue("child_id"), r.PathValue("id"))
	if err != nil {
		h.logger.Error("complete task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to complete task")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"points":        res.Points,
		"bonus_awarded": res.BonusAwarded,
	})
}

func (h *TaskHandler) Reset(w http.ResponseWriter, r *http.Request) {
	res, err := h.state.ResetTask(r.PathValue("child_id"), r.PathValue("id"))
	if err != nil {
		h.logger.Error("reset task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset task")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.state.ResetTasks(r.PathValue("child_id"))
	if err != nil {
		h.logger.Error("reset tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset tasks")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
