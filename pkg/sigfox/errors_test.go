package sigfox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantKind  ErrorKind
		retriable bool
	}{
		{"unauthorized", http.StatusUnauthorized, "", KindAuthentication, false},
		{"forbidden", http.StatusForbidden, "", KindAuthentication, false},
		{"not found", http.StatusNotFound, `{"message":"device ABC123 does not exist"}`, KindNotFound, false},
		{"bad request", http.StatusBadRequest, "", KindValidation, false},
		{"unprocessable", http.StatusUnprocessableEntity, "", KindValidation, false},
		{"rate limited", http.StatusTooManyRequests, "", KindRateLimited, true},
		{"internal", http.StatusInternalServerError, "", KindServerError, true},
		{"bad gateway", http.StatusBadGateway, "", KindServerError, true},
		{"teapot", http.StatusTeapot, "", KindUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.status, []byte(tt.body), nil)
			require.NotNil(t, err)
			assert.Equal(t, tt.wantKind, err.Kind)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.Equal(t, tt.retriable, err.Retriable)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestClassifyTransportErrors(t *testing.T) {
	deadline := Classify(0, nil, fmt.Errorf("request: %w", context.DeadlineExceeded))
	assert.Equal(t, KindTimeout, deadline.Kind)
	assert.True(t, deadline.Retriable)
	assert.Zero(t, deadline.StatusCode)

	netTimeout := Classify(0, nil, timeoutErr{})
	assert.Equal(t, KindTimeout, netTimeout.Kind)

	refused := Classify(0, nil, errors.New("dial tcp 127.0.0.1:443: connection refused"))
	assert.Equal(t, KindNetwork, refused.Kind)
	assert.True(t, refused.Retriable)
}

func TestClassifyTransportErrorWinsOverStatus(t *testing.T) {
	err := Classify(http.StatusInternalServerError, []byte(`{"message":"boom"}`), errors.New("connection reset"))
	assert.Equal(t, KindNetwork, err.Kind)
}

func TestClassifyMalformedBodyKeepsClassification(t *testing.T) {
	err := Classify(http.StatusNotFound, []byte("<html>not json</html>"), nil)
	assert.Equal(t, KindNotFound, err.Kind)
	assert.NotEmpty(t, err.Message)
}

func TestClassifyNonJSONBodyCarriesRawText(t *testing.T) {
	err := Classify(http.StatusBadGateway, []byte("  upstream connect error or disconnect\n"), nil)
	assert.Equal(t, KindServerError, err.Kind)
	assert.Equal(t, "upstream connect error or disconnect", err.Message)
}

func TestClassifyLongNonJSONBodyIsTruncated(t *testing.T) {
	body := strings.Repeat("x", 2048)
	err := Classify(http.StatusServiceUnavailable, []byte(body), nil)
	assert.Equal(t, KindServerError, err.Kind)
	assert.Len(t, err.Message, maxRawErrorBody)
}

func TestExtractMessageFieldErrors(t *testing.T) {
	body := []byte(`{"message":"invalid request","errors":[{"field":"name","message":"must not be empty"},{"field":"pac","message":"bad format"}]}`)
	got := extractMessage(body)
	assert.Equal(t, "invalid request; name: must not be empty; pac: bad format", got)
}

func TestErrorPredicates(t *testing.T) {
	notFound := fmt.Errorf("get device: %w", &APIError{Kind: KindNotFound, StatusCode: 404, Message: "gone"})
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsAuthentication(notFound))
	assert.False(t, IsRetriable(notFound))

	throttled := error(&APIError{Kind: KindRateLimited, StatusCode: 429, Retriable: true})
	assert.True(t, IsRetriable(throttled))

	assert.False(t, IsNotFound(errors.New("plain error")))
}

func TestAPIErrorString(t *testing.T) {
	withStatus := &APIError{Kind: KindNotFound, StatusCode: 404, Message: "device not found"}
	assert.Equal(t, "sigfox: not_found (HTTP 404): device not found", withStatus.Error())

	noStatus := &APIError{Kind: KindNetwork, Message: "connection refused"}
	assert.Equal(t, "sigfox: network: connection refused", noStatus.Error())
}
