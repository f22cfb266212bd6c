package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haukeland/stjerne/internal/engine"
)

func TestWriteResultStatusMapping(t *testing.T) {
	tests := []struct {
		code engine.Code
		want int
	}{
		{engine.CodeChildNotFound, http.StatusNotFound},
		{engine.CodeTaskNotFound, http.StatusNotFound},
		{engine.CodeRewardNotFound, http.StatusNotFound},
		{engine.CodeAlreadyCompleted, http.StatusConflict},
		{engine.CodeAlreadyPurchased, http.StatusConflict},
		{engine.CodeInsufficientPoints, http.StatusConflict},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeResult(rec, engine.Result{Code: tt.code})
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.code, rec.Code, tt.want)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: body is not JSON: %v", tt.code, err)
		}
		if body["error"] != tt.code.String() {
			t.Errorf("%s: error = %v, want %q", tt.code, body["error"], tt.code.String())
		}
	}
}

func TestWriteResultShortfall(t *testing.T) {
	rec := httptest.NewRecorder()
	writeResult(rec, engine.Result{
		Code:      engine.CodeInsufficientPoints,
		Points:    20,
		Shortfall: 30,
	})

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["shortfall"] != float64(30) || body["points"] != float64(20) {
		t.Errorf("body = %v, want points 20 and shortfall 30", body)
	}
}

func TestValidPin(t *testing.T) {
	valid := []string{"0000", "1234", "9999"}
	for _, pin := range valid {
		if err := validPin(pin); err != nil {
			t.Errorf("validPin(%q) = %v, want nil", pin, err)
		}
	}

	invalid := []string{"", "123", "12345", "12a4", "12.4", "١٢٣٤"}
	for _, pin := range invalid {
		if err := validPin(pin); err == nil {
			t.Errorf("validPin(%q) = nil, want error", pin)
		}
	}
}

func TestValidName(t *testing.T) {
	if err := validName(""); err == nil {
		t.Error("empty name should be rejected")
	}
	if err := validName("Ola"); err != nil {
		t.Errorf("validName(Ola) = %v, want nil", err)
	}

	long := make([]rune, maxNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	if err := validName(string(long)); err == nil {
		t.Error("over-length name should be rejected")
	}
}

func TestValidPoints(t *testing.T) {
	for _, p := range []int{1, 500, maxPoints} {
		if err := validPoints(p); err != nil {
			t.Errorf("validPoints(%d) = %v, want nil", p, err)
		}
	}
	for _, p := range []int{0, -5, maxPoints + 1} {
		if err := validPoints(p); err == nil {
			t.Errorf("validPoints(%d) = nil, want error", p)
		}
	}
}
