package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
)

// Kind classifies a failed request
type Kind string

const (
	// KindUnauthorized is an HTTP 401. The host should force a re-login.
	KindUnauthorized Kind = "unauthorized"
	// KindServer is any other 4xx/5xx response
	KindServer Kind = "server"
	// KindNetwork means no response arrived (connection failure or timeout)
	KindNetwork Kind = "network"
)

// FetchError is returned by every Client call that did not get a 2xx response
type FetchError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("network error: %s", e.Message)
	case KindUnauthorized:
		return fmt.Sprintf("unauthorized: %s", e.Message)
	default:
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError extracts a *FetchError from err's chain
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool {
	fe, ok := AsFetchError(err)
	return ok && fe.Kind == KindUnauthorized
}

// IsNetwork reports whether err means no response was received
func IsNetwork(err error) bool {
	fe, ok := AsFetchError(err)
	return ok && fe.Kind == KindNetwork
}

func networkError(err error) *FetchError {
	return &FetchError{Kind: KindNetwork, Message: err.Error(), Err: err}
}

func statusError(status int, body []byte) *FetchError {
	msg := serverMessage(body)
	kind := KindServer
	if status == http.StatusUnauthorized {
		kind = KindUnauthorized
	}
	return &FetchError{Kind: kind, Status: status, Message: msg}
}

// serverMessage pulls the human-readable message out of an error payload.
// The backend uses {"detail": "..."}; validation failures carry a list of
// {"msg": "..."} objects under "detail".
func serverMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "message", "error"} {
		switch v := payload[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			var msgs []string
			for _, entry := range v {
				if obj, ok := entry.(map[string]any); ok {
					if m, ok := obj["msg"].(string); ok {
						msgs = append(msgs, m)
					}
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return ""
}
