package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/haukeland/stjerne/internal/app"
	"github.com/haukeland/stjerne/internal/model"
)

type SettingsHandler struct {
	state  *app.State
	logger *slog.Logger
}

func NewSettingsHandler(state *app.State, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{state: state, logger: logger}
}

type settingsResponse struct {
	RequirePinForPurchase bool `json:"requirePinForPurchase"`
	Enable24hReset        bool `json:"enable24hReset"`
}

// Get returns the household settings. The PIN itself is never echoed.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings := h.state.Snapshot().Settings
	resp := settingsResponse{
		RequirePinForPurchase: settings.RequirePinForPurchase,
		Enable24hReset:        settings.Enable24hReset == nil || *settings.Enable24hReset,
	}
	writeJSON(w, http.StatusOK, resp)
}

type verifyPinRequest struct {
	Pin string `json:"pin"`
}

// VerifyPin is the parent-mode gate: a simple equality check against the
// stored PIN. The route is rate limited upstream.
func (h *SettingsHandler) VerifyPin(w http.ResponseWriter, r *http.Request) {
	var req verifyPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !h.state.VerifyPin(req.Pin) {
		writeError(w, http.StatusForbidden, "incorrect PIN")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateSettingsRequest struct {
	CurrentPin            string `json:"currentPin"`
	NewPin                string `json:"newPin,omitempty"`
	ConfirmPin            string `json:"confirmPin,omitempty"`
	RequirePinForPurchase *bool  `json:"requirePinForPurchase,omitempty"`
	Enable24hReset        *bool  `json:"enable24hReset,omitempty"`
}

// Update changes the PIN and/or toggles. Every change requires the
// current PIN; a new PIN must be 4 digits and confirmed.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if !h.state.VerifyPin(req.CurrentPin) {
		writeError(w, http.StatusForbidden, "incorrect PIN")
		return
	}

	settings := h.state.Snapshot().Settings

	if req.NewPin != "" {
		if err := validPin(req.NewPin); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.NewPin != req.ConfirmPin {
			writeError(w, http.StatusBadRequest, "PIN confirmation does not match")
			return
		}
		settings.ParentPin = req.NewPin
	}
	if req.RequirePinForPurchase != nil {
		settings.RequirePinForPurchase = *req.RequirePinForPurchase
	}
	if req.Enable24hReset != nil {
		settings.Enable24hReset = model.BoolPtr(*req.Enable24hReset)
	}

	if err := h.state.UpdateSettings(settings); err != nil {
		h.logger.Error("update settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetAll wipes the snapshot back to factory defaults. PIN gated.
func (h *SettingsHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	var req verifyPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !h.state.VerifyPin(req.Pin) {
		writeError(w, http.StatusForbidden, "incorrect PIN")
		return
	}
	if err := h.state.ResetAll(); err != nil {
		h.logger.Error("reset all data", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset data")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
