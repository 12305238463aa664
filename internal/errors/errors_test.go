package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected ErrCode
	}{
		{name: "timeout", err: NewTimeoutError("repos/o/r/stats/contributors", 3), expected: ErrCodeTimeout},
		{name: "wrapped request failure", err: fmt.Errorf("branches: %w", NewRequestFailedError("x", 500, nil)), expected: ErrCodeRequestFailed},
		{name: "plain error", err: fmt.Errorf("boom"), expected: ""},
		{name: "nil", err: nil, expected: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CodeOf(tc.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsTimeout(NewTimeoutError("u", 1)))
	assert.True(t, IsRequestFailed(fmt.Errorf("wrap: %w", NewRequestFailedError("u", 404, nil))))
	assert.True(t, IsMissingRequiredContext(NewMissingRequiredContextError("ORGANIZATION")))
	assert.True(t, IsNotFound(NewNotFoundError("snapshot")))
	assert.False(t, IsTimeout(NewRequestFailedError("u", 500, nil)))
}

func TestAppError_Error(t *testing.T) {
	err := NewRequestFailedError("orgs/acme/members", 403, nil)
	assert.Equal(t, "REQUEST_FAILED: request to orgs/acme/members failed (status 403)", err.Error())

	cause := fmt.Errorf("dial tcp: refused")
	wrapped := NewRequestFailedError("orgs/acme", 0, cause)
	assert.Contains(t, wrapped.Error(), "dial tcp: refused")
	assert.ErrorIs(t, wrapped, cause)
}
