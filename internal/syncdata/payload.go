// Package syncdata owns the device-sync envelope: the snapshot JSON as it
// travels inside a QR code, a pasted text blob, an email body, or a
// deep-link URL query parameter. Transports themselves (camera, clipboard,
// mail client) live outside this program; they deliver or accept the
// finished payload.
package syncdata

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/haukeland/stjerne/internal/migrate"
	"github.com/haukeland/stjerne/internal/model"
)

// Practical payload limits documented by the originating transports.
// Advisory only: oversized payloads are still encoded and decoded.
const (
	QRCapacityBytes    = 2900
	SMSCapacityBytes   = 1000
	EmailCapacityBytes = 50 * 1024
)

// Encode serializes the snapshot for QR, text, or email transport.
func Encode(data *model.AppData) ([]byte, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode sync payload: %w", err)
	}
	return b, nil
}

// EncodeURLParam serializes the snapshot percent-encoded for use as a
// deep-link query parameter value.
func EncodeURLParam(data *model.AppData) (string, error) {
	b, err := Encode(data)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(b)), nil
}

// Decode parses a received payload into a clean snapshot. The result is
// always sanitized, so a truncated or tampered payload degrades to
// defaults instead of failing the import; the returned error only flags
// that the payload was not valid JSON, for the caller's messaging.
func Decode(payload []byte, lang model.Language) (*model.AppData, error) {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return migrate.Sanitize(payload, lang), fmt.Errorf("decode sync payload: %w", err)
	}
	return migrate.SanitizeValue(v, lang), nil
}

// DecodeURLParam parses a percent-encoded deep-link parameter.
func DecodeURLParam(param string, lang model.Language) (*model.AppData, error) {
	raw, err := url.QueryUnescape(param)
	if err != nil {
		return model.DefaultData(), fmt.Errorf("unescape sync payload: %w", err)
	}
	return Decode([]byte(raw), lang)
}

// SizeReport describes how the encoded snapshot fits each transport.
type SizeReport struct {
	Bytes     int  `json:"bytes"`
	FitsQR    bool `json:"fits_qr"`
	FitsSMS   bool `json:"fits_sms"`
	FitsEmail bool `json:"fits_email"`
}

// Size reports the encoded payload size against each channel's practical
// capacity.
func Size(data *model.AppData) (SizeReport, error) {
	b, err := Encode(data)
	if err != nil {
		return SizeReport{}, err
	}
	n := len(b)
	return SizeReport{
		Bytes:     n,
		FitsQR:    n <= QRCapacityBytes,
		FitsSMS:   n <= SMSCapacityBytes,
		FitsEmail: n <= EmailCapacityBytes,
	}, nil
}
