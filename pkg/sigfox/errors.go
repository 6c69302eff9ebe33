package sigfox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrorKind is the closed taxonomy of failures the SDK can surface.
// Every failed operation returns an *APIError carrying exactly one kind.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuthentication
	KindNotFound
	KindValidation
	KindRateLimited
	KindNetwork
	KindTimeout
	KindServerError
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindRateLimited:
		return "rate_limited"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// APIError is the uniform error shape returned by every SDK operation.
// StatusCode is zero when the failure happened before an HTTP response
// existed (network errors, timeouts, missing credentials). Retriable is
// advisory only — the SDK itself never retries.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Retriable  bool
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("sigfox: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("sigfox: %s: %s", e.Kind, e.Message)
}

// IsNotFound reports whether err is an *APIError with KindNotFound.
func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

// IsAuthentication reports whether err is an *APIError with KindAuthentication.
func IsAuthentication(err error) bool { return hasKind(err, KindAuthentication) }

// IsRetriable reports whether err is an *APIError marked retriable.
func IsRetriable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retriable
}

func hasKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Classify maps an HTTP outcome into an *APIError. It is total: every
// (statusCode, body, transportErr) triple yields exactly one error value,
// and a malformed body degrades the message, never the classification.
// transportErr, when non-nil, takes precedence over the status code.
func Classify(statusCode int, body []byte, transportErr error) *APIError {
	if transportErr != nil {
		return classifyTransport(transportErr)
	}

	msg := extractMessage(body)

	switch {
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		if msg == "" {
			msg = "authentication failed; check your API credentials"
		}
		return &APIError{Kind: KindAuthentication, StatusCode: statusCode, Message: msg}
	case statusCode == http.StatusNotFound:
		if msg == "" {
			msg = "resource not found"
		}
		return &APIError{Kind: KindNotFound, StatusCode: statusCode, Message: msg}
	case statusCode == http.StatusBadRequest, statusCode == http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "request rejected by the service"
		}
		return &APIError{Kind: KindValidation, StatusCode: statusCode, Message: msg}
	case statusCode == http.StatusTooManyRequests:
		if msg == "" {
			msg = "rate limit exceeded"
		}
		return &APIError{Kind: KindRateLimited, StatusCode: statusCode, Message: msg, Retriable: true}
	case statusCode >= 500:
		if msg == "" {
			msg = "service error"
		}
		return &APIError{Kind: KindServerError, StatusCode: statusCode, Message: msg, Retriable: true}
	default:
		if msg == "" {
			msg = fmt.Sprintf("unexpected response (HTTP %d)", statusCode)
		}
		return &APIError{Kind: KindUnknown, StatusCode: statusCode, Message: msg}
	}
}

func classifyTransport(err error) *APIError {
	if isTimeout(err) {
		return &APIError{Kind: KindTimeout, Message: err.Error(), Retriable: true}
	}
	return &APIError{Kind: KindNetwork, Message: err.Error(), Retriable: true}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// maxRawErrorBody bounds how much of a non-JSON error body is carried
// into the APIError message.
const maxRawErrorBody = 256

// extractMessage pulls the error message out of a Sigfox error body.
// The v2 API reports `{"message": "...", "errors": [{"field","message"}]}`;
// field-level details are appended when present so validation failures
// surface the exact offending field. A body that is not JSON at all, such
// as a proxy's plain-text error page, is carried through truncated rather
// than discarded.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		raw := strings.TrimSpace(string(body))
		if len(raw) > maxRawErrorBody {
			raw = raw[:maxRawErrorBody]
		}
		return raw
	}
	msg := payload.Message
	for _, fe := range payload.Errors {
		detail := fe.Message
		if fe.Field != "" {
			detail = fe.Field + ": " + detail
		}
		if msg == "" {
			msg = detail
		} else {
			msg += "; " + detail
		}
	}
	return msg
}
