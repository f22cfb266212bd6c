package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/haukeland/stjerne/internal/app"
)

type RewardHandler struct {
	state  *app.State
	logger *slog.Logger
}

func NewRewardHandler(state *app.State, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{state: state, logger: logger}
}

type rewardRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Cost int    `json:"cost"`
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validPoints(req.Cost); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.state.AddReward(r.PathValue("child_id"), req.Name, req.Icon, req.Cost)
	if err != nil {
		h.logger.Error("add reward", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add reward")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.state.DeleteReward(r.PathValue("child_id"), r.PathValue("id"))
	if err != nil {
		h.logger.Error("delete reward", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete reward")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Purchase spends points on the reward. When the household has
// requirePinForPurchase on, the parent PIN must accompany the request.
// An unaffordable reward conflicts with the exact shortfall in the body.
func (h *RewardHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	if h.state.RequirePinForPurchase() && !h.state.VerifyPin(r.Header.Get(parentPinHdr)) {
		writeError(w, http.StatusForbidden, "PIN required for purchase")
		return
	}

	res, err := h.state.PurchaseReward(r.PathValue("child_id"), r.PathValue("id"))
	if err != nil {
		h.logger.Error("purchase reward", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to purchase reward")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"points": res.Points})
}

func (h *RewardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	res, err := h.state.ResetReward(r.PathValue("child_id"), r.PathValue("id"))
	if err != nil {
		h.logger.Error("reset reward", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset reward")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RewardHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.state.ResetRewards(r.PathValue("child_id"))
	if err != nil {
		h.logger.Error("reset rewards", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset rewards")
		return
	}
	if !res.OK() {
		writeResult(w, res)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
