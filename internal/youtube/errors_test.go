package youtube

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestTranslateError(t *testing.T) {
	gerr := &googleapi.Error{
		Code:   403,
		Body:   `{"error":{"code":403}}`,
		Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
	}

	err := translateError(fmt.Errorf("call: %w", gerr))
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 403, te.StatusCode)
	assert.Equal(t, "quotaExceeded", te.Reason)
	assert.Contains(t, te.Error(), "403")

	plain := errors.New("dial tcp: connection refused")
	assert.Equal(t, plain, translateError(plain))
	assert.NoError(t, translateError(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&TransportError{StatusCode: 429}))
	assert.True(t, IsRetryable(&TransportError{StatusCode: 503}))
	assert.True(t, IsRetryable(&TransportError{StatusCode: 403, Reason: "rateLimitExceeded"}))
	assert.False(t, IsRetryable(&TransportError{StatusCode: 403, Reason: "quotaExceeded"}))
	assert.False(t, IsRetryable(&TransportError{StatusCode: 404}))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(ErrInvalidInput))
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
}
