package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/haukeland/stjerne/internal/app"
	"github.com/haukeland/stjerne/internal/backup"
	"github.com/haukeland/stjerne/internal/store"
	"github.com/haukeland/stjerne/internal/syncdata"
)

type BackupHandler struct {
	state   *app.State
	manager *backup.Manager
	backups *store.BackupStore
	logger  *slog.Logger
}

func NewBackupHandler(state *app.State, manager *backup.Manager, backups *store.BackupStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{state: state, manager: manager, backups: backups, logger: logger}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backups.List(50)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	writeJSON(w, http.StatusOK, backups)
}

type passphraseRequest struct {
	Passphrase string `json:"passphrase"`
}

// Configure sets the backup passphrase for scheduled and manual backups.
func (h *BackupHandler) Configure(w http.ResponseWriter, r *http.Request) {
	var req passphraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Passphrase == "" {
		writeError(w, http.StatusBadRequest, "passphrase is required")
		return
	}
	if err := h.manager.SetPassphrase(req.Passphrase); err != nil {
		h.logger.Error("set backup passphrase", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to configure backup")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Run triggers an immediate encrypted snapshot backup.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req passphraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	id, err := h.manager.RunNow(r.Context(), req.Passphrase)
	if err != nil {
		h.logger.Error("run backup", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int64{"id": id})
}

// Restore downloads a backup, decrypts it, and merges it into the local
// snapshot through the same path as a device import.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req passphraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	snapshot, err := h.manager.Fetch(r.Context(), id, req.Passphrase)
	if err != nil {
		h.logger.Error("fetch backup", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	remote, err := syncdata.Decode(snapshot, h.state.Language())
	if err != nil {
		writeError(w, http.StatusBadRequest, "backup payload is not valid JSON")
		return
	}
	if err := h.state.Import(remote); err != nil {
		h.logger.Error("merge backup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to merge backup")
		return
	}
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}
