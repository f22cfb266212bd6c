package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/haukeland/stjerne/internal/app"
	"github.com/haukeland/stjerne/internal/model"
	"github.com/haukeland/stjerne/internal/syncdata"
)

// maxImportBytes caps import bodies well above any transport's practical
// payload size.
const maxImportBytes = 1 << 20

type SyncHandler struct {
	state  *app.State
	logger *slog.Logger
}

func NewSyncHandler(state *app.State, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{state: state, logger: logger}
}

// Export returns the snapshot payload as carried by QR, text, and email
// transports, along with how it fits each channel.
func (h *SyncHandler) Export(w http.ResponseWriter, r *http.Request) {
	snapshot := h.state.Snapshot()

	payload, err := syncdata.Encode(snapshot)
	if err != nil {
		h.logger.Error("encode sync payload", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to encode snapshot")
		return
	}
	urlParam, err := syncdata.EncodeURLParam(snapshot)
	if err != nil {
		h.logger.Error("encode sync url param", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to encode snapshot")
		return
	}
	size, err := syncdata.Size(snapshot)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode snapshot")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"payload":   json.RawMessage(payload),
		"url_param": urlParam,
		"size":      size,
	})
}

// Import merges a payload from another device into the local snapshot.
// The body is either raw snapshot JSON (QR scan, pasted text) or a
// percent-encoded deep-link parameter via ?param=.
func (h *SyncHandler) Import(w http.ResponseWriter, r *http.Request) {
	lang := h.state.Language()

	if param := r.URL.Query().Get("param"); param != "" {
		remote, err := syncdata.DecodeURLParam(param, lang)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid sync payload")
			return
		}
		h.merge(w, remote)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	remote, err := syncdata.Decode(body, lang)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sync payload")
		return
	}
	h.merge(w, remote)
}

func (h *SyncHandler) merge(w http.ResponseWriter, remote *model.AppData) {
	if err := h.state.Import(remote); err != nil {
		h.logger.Error("merge snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to merge snapshot")
		return
	}
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}
