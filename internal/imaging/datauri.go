// Package imaging normalizes uploaded images before they are sent to the
// generation service and resizes generated posters to their output format.
package imaging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var errMalformedDataURI = errors.New("malformed data uri")

// ParseDataURI splits a base64 data URI into its media type and payload.
func ParseDataURI(raw string) (string, []byte, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "data:") {
		return "", nil, errMalformedDataURI
	}
	header, payload, ok := strings.Cut(raw[len("data:"):], ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, errMalformedDataURI
	}
	mime := strings.TrimSuffix(header, ";base64")
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", errMalformedDataURI, err)
	}
	if len(data) == 0 {
		return "", nil, errMalformedDataURI
	}
	return strings.ToLower(mime), data, nil
}

// EncodeDataURI wraps bytes as a base64 data URI.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
