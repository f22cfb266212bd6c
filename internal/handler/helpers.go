package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/haukeland/stjerne/internal/engine"
)

// Field validation limits for task/reward/child forms.
const (
	maxNameLen   = 50
	maxPoints    = 1000
	pinLength    = 4
	parentPinHdr = "X-Parent-Pin"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeResult maps an engine reason code to an HTTP response. Successful
// results are the caller's business; precondition failures become 4xx with
// the code as a stable error identifier.
func writeResult(w http.ResponseWriter, res engine.Result) {
	switch res.Code {
	case engine.CodeChildNotFound, engine.CodeTaskNotFound, engine.CodeRewardNotFound:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": res.Code.String()})
	case engine.CodeAlreadyCompleted, engine.CodeAlreadyPurchased:
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  res.Code.String(),
			"points": res.Points,
		})
	case engine.CodeInsufficientPoints:
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     res.Code.String(),
			"points":    res.Points,
			"shortfall": res.Shortfall,
		})
	default:
		writeError(w, http.StatusInternalServerError, "unexpected result")
	}
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len([]rune(name)) > maxNameLen {
		return fmt.Errorf("name too long (max %d characters)", maxNameLen)
	}
	return nil
}

func validPoints(points int) error {
	if points < 1 || points > maxPoints {
		return fmt.Errorf("points must be between 1 and %d", maxPoints)
	}
	return nil
}

func validPin(pin string) error {
	if len(pin) != pinLength {
		return fmt.Errorf("PIN must be %d digits", pinLength)
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return fmt.Errorf("PIN must be %d digits", pinLength)
		}
	}
	return nil
}
