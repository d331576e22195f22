package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf_UnwrapsChains(t *testing.T) {
	err := fmt.Errorf("respond: %w", Conflict("request %s already exists", "abc"))

	assert.Equal(t, ErrorTypeConflict, TypeOf(err))
	assert.True(t, IsErrorType(err, ErrorTypeConflict))
	assert.False(t, IsErrorType(err, ErrorTypeNotFound))
	assert.Equal(t, "request abc already exists", MessageOf(err))
}

func TestTypeOf_UntypedError(t *testing.T) {
	err := stderrors.New("boom")

	assert.Equal(t, ErrorType(""), TypeOf(err))
	assert.False(t, IsErrorType(nil, ErrorTypeStore))
	assert.Equal(t, "boom", MessageOf(err))
}

func TestBaseError_WrapsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Store("failed to create request", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[store] failed to create request: disk full", err.Error())
}

func TestConfigErrors_CarryField(t *testing.T) {
	err := NewConfigMissingRequired("NEO4J_URI")

	assert.Equal(t, "NEO4J_URI", err.Field)
	assert.True(t, IsErrorType(err, ErrorTypeConfig))
}
