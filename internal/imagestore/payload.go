package imagestore

import (
	"encoding/base64"
	"errors"
	"mime"
	"net/http"
	"strings"
)

var ErrEmptyPayload = errors.New("image payload is empty")

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

// DecodePayload accepts a data URI (data:image/png;base64,...) or bare
// base64 and returns the raw bytes with their content type.
func DecodePayload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", ErrEmptyPayload
	}

	var contentType string
	if strings.HasPrefix(payload, "data:") {
		meta, data, ok := strings.Cut(payload[len("data:"):], ",")
		if !ok {
			return nil, "", errors.New("malformed data uri")
		}
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("data uri is not base64 encoded")
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		payload = data
	}

	raw, err := decodeBase64(payload)
	if err != nil {
		return nil, "", err
	}
	if len(raw) == 0 {
		return nil, "", ErrEmptyPayload
	}
	if contentType == "" {
		contentType = http.DetectContentType(raw)
	}
	return raw, contentType, nil
}

func decodeBase64(s string) ([]byte, error) {
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

func extensionFor(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	if ext, ok := extByType[ct]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(ct); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
