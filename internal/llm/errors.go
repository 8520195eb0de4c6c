package llm

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
)

// IsTransient classifies a remote failure as likely to succeed on retry:
// timeouts, provider overload, rate limiting, and 5xx-class errors. Contract
// and credential errors are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}

	// Fall back to message inspection for wrapped provider errors.
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"timeout", "deadline exceeded", "overloaded", "rate limit", "quota", "429", "503", "500", "unavailable"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
