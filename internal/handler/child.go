package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/haukeland/stjerne/internal/app"
	"github.com/haukeland/stjerne/internal/engine"
)

type ChildHandler struct {
	state  *app.State
	logger *slog.Logger
}

func NewChildHandler(state *app.State, logger *slog.Logger) *ChildHandler {
	return &ChildHandler{state: state, logger: logger}
}

func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Snapshot().Children)
}

type childRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.state.AddChild(req.Name, req.Avatar)
	if err != nil {
		h.logger.Error("add child", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add child")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *ChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.state.DeleteChild(r.PathValue("id"))
	if err != nil {
		h.logger.Error("delete child", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete child")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type adjustPointsRequest struct {
	Delta int `json:"delta"`
}

func (h *ChildHandler) AdjustPoints(w http.ResponseWriter, r *http.Request) {
	var req adjustPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := h.state.AdjustPoints(r.PathValue("id"), req.Delta)
	if err != nil {
		h.logger.Error("adjust points", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to adjust points")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"points": res.Points})
}

type resetToggleRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *ChildHandler) SetResetEnabled(w http.ResponseWriter, r *http.Request) {
	var req resetToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := h.state.SetChildResetEnabled(r.PathValue("id"), req.Enabled)
	if err != nil {
		h.logger.Error("set reset toggle", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update child")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activities returns the child's newest activities, most recent first.
// The stored log is unbounded; this is the display window.
func (h *ChildHandler) Activities(w http.ResponseWriter, r *http.Request) {
	snapshot := h.state.Snapshot()
	child := snapshot.Child(r.PathValue("id"))
	if child == nil {
		writeError(w, http.StatusNotFound, engine.CodeChildNotFound.String())
		return
	}

	limit := engine.RecentActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	writeJSON(w, http.StatusOK, engine.RecentActivities(child, limit))
}
