package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is wrapped by an *APIError when the backend answered 401
// to a request that carried a bearer token. The bound credentials have
// already been expired when a caller sees it.
var ErrUnauthorized = errors.New("unauthorized")

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// APIError is a non-2xx response. Detail carries the backend's "detail"
// field verbatim when present.
type APIError struct {
	StatusCode int
	Detail     string

	sessionRejected bool
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.sessionRejected {
		return ErrUnauthorized
	}
	return nil
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// parseDetail extracts "detail" from an error body. Validation failures
// carry a list of {loc, msg} objects.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if len(it.Loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(envelope.Detail)
}
