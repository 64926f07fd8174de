package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"nearActivity/internal/activity"
)

const sourceNode = "node"

func upstream(err error) error {
	return &activity.UpstreamError{Source: sourceNode, Err: err}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, activity.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, activity.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides upstream details. Invalid requests are echoed back.
func publicMessage(operation string, status int, err error) string {
	switch status {
	case http.StatusBadRequest:
		return SanitizeError(err)
	case http.StatusServiceUnavailable:
		return fmt.Sprintf("%s: %s", operation, activity.ErrUpstreamUnavailable)
	default:
		if errors.Is(err, activity.ErrInconsistentIndex) {
			return fmt.Sprintf("%s: %s", operation, activity.ErrInconsistentIndex)
		}
		return operation
	}
}

// SanitizeError strips URL credentials and query strings from an error message.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	if idx := strings.Index(msg, "://"); idx != -1 {
		if atIdx := strings.Index(msg[idx:], "@"); atIdx != -1 {
			endOfProto := idx + len("://")
			msg = msg[:endOfProto] + "***@" + msg[idx+atIdx+1:]
		}
	}

	if idx := strings.Index(msg, "?"); idx != -1 {
		endIdx := len(msg)
		for _, delim := range []string{" ", "'", "\""} {
			if i := strings.Index(msg[idx:], delim); i != -1 && idx+i < endIdx {
				endIdx = idx + i
			}
		}
		msg = msg[:idx] + "?..." + msg[endIdx:]
	}

	return msg
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
