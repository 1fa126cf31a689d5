package generation

import (
	"errors"
	"net/http"
	"strings"

	"poster-server/internal/domain"
	"poster-server/internal/providers/genai"
)

// capacityMarkers are substrings of error messages that denote overload,
// rate limiting or resource exhaustion at the generation service.
var capacityMarkers = []string{
	"rate limit",
	"rate_limit",
	"resource_exhausted",
	"resource exhausted",
	"resource has been exhausted",
	"overloaded",
	"quota",
	"unavailable",
	"capacity",
	"too many requests",
}

// IsCapacityError reports whether err is a transient capacity condition that
// justifies trying the fallback model.
func IsCapacityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrCapacity) {
		return true
	}
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range capacityMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
