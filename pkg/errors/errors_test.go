package errors_test

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edpop/explorer/pkg/errors"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.ErrorTypeNotFound, "no record for identifier")
	assert.Equal(t, "not_found: no record for identifier", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrorTypeReader, "index %d out of range", 25)
	assert.Equal(t, "reader: index 25 out of range", err.Error())
}

func TestWrap(t *testing.T) {
	err := errors.Wrap(io.EOF, errors.ErrorTypeTransport, "reading SRU response")
	require.NotNil(t, err)
	assert.Equal(t, "transport: reading SRU response: EOF", err.Error())
	assert.True(t, stderrors.Is(err, io.EOF))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrorTypeTransport, "ignored"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := errors.New(errors.ErrorTypeData, "malformed payload")
	outer := errors.Wrap(inner, errors.ErrorTypeReader, "fetching range")
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, errors.IsType(outer, errors.ErrorTypeReader))
	assert.False(t, errors.IsType(outer, errors.ErrorTypeData),
		"IsType reports the outermost type only")
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrorTypeField, "expected string value").
		WithDetail("field", "title").
		WithDetail("got", 42)
	assert.Equal(t, "title", err.Details["field"])
	assert.Equal(t, 42, err.Details["got"])
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, errors.IsRetryable(errors.New(errors.ErrorTypeTimeout, "slow catalog")))
	assert.True(t, errors.IsRetryable(errors.New(errors.ErrorTypeRateLimit, "throttled")))
	assert.True(t, errors.IsRetryable(errors.New(errors.ErrorTypeTransport, "connection reset")))
	assert.False(t, errors.IsRetryable(errors.New(errors.ErrorTypeNotFound, "gone")))
	assert.False(t, errors.IsRetryable(io.EOF))
}

func TestIsNotFound(t *testing.T) {
	err := errors.New(errors.ErrorTypeNotFound, "no such record")
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsNotFound(errors.Wrap(err, errors.ErrorTypeNotFound, "lookup failed")))
	assert.False(t, errors.IsNotFound(errors.New(errors.ErrorTypeReader, "bad state")))
	assert.False(t, errors.IsNotFound(nil))
}
