package upstream

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "deadline exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestFromRequestError_Timeout(t *testing.T) {
	err := FromRequestError(fmt.Errorf("doing request: %w", timeoutErr{}))
	assert.Equal(t, KindTimeout, err.Kind)
}

func TestFromRequestError_Connection(t *testing.T) {
	err := FromRequestError(fmt.Errorf("dial tcp: connection refused"))
	assert.Equal(t, KindConnection, err.Kind)
}

func TestFromStatus(t *testing.T) {
	err := FromStatus(502, "bad gateway")
	assert.Equal(t, KindStatus, err.Kind)
	assert.Equal(t, 502, err.Status)
	assert.Equal(t, "bad gateway", err.Body)
	assert.Equal(t, "upstream status: HTTP 502", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("reset by peer")
	err := &Error{Kind: KindConnection, Err: inner}
	assert.ErrorIs(t, err, inner)
}
