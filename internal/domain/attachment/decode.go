package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmpty    = errors.New("attachment is empty")
	ErrTooLarge = errors.New("attachment exceeds size limit")
	ErrNotImage = errors.New("attachment is not an image")
)

// Decode parses a base64 payload, optionally wrapped as a data URL
// ("data:image/png;base64,...."), and checks that the bytes are an image.
// It returns the raw bytes and the detected content type.
func Decode(payload string, maxBytes int) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if i := strings.Index(payload, ";base64,"); i >= 0 {
		payload = payload[i+len(";base64,"):]
	}
	if payload == "" {
		return nil, "", ErrEmpty
	}
	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return nil, "", ErrTooLarge
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	if len(raw) == 0 {
		return nil, "", ErrEmpty
	}
	if maxBytes > 0 && len(raw) > maxBytes {
		return nil, "", ErrTooLarge
	}
	mt := mimetype.Detect(raw)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	return raw, mt.String(), nil
}
