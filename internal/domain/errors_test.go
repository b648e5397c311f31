package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferError_Kinds(t *testing.T) {
	err := fmt.Errorf("job x: %w", &TransferError{Kind: TransferHTTP, StatusCode: 404, Err: errors.New("not found")})

	assert.True(t, IsTransferKind(err, TransferHTTP))
	assert.False(t, IsTransferKind(err, TransferNetwork))
	assert.False(t, IsTransferKind(errors.New("plain"), TransferHTTP))
	assert.Contains(t, err.Error(), "status 404")
}

func TestTransferError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewTransferError(TransferIO, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "io error: permission denied", err.Error())
}

func TestResolutionError(t *testing.T) {
	cause := errors.New("invalid quick key")
	err := &ResolutionError{Key: "abc", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), `"abc"`)
}
