package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeInvalidSMILES, "unmatched ring bond")
	assert.Equal(t, "[CHEM_001] unmatched ring bond", err.Error())

	err = err.WithDetail("smiles=C1CC")
	assert.Equal(t, "[CHEM_001] unmatched ring bond: smiles=C1CC", err.Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeDatabase, "query failed"))

	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeDatabase, "molecule lookup failed")
	assert.Equal(t, CodeDatabase, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWrap_PreservesCodeForUnknown(t *testing.T) {
	inner := New(CodeMoleculeNotFound, "no such molecule")
	wrapped := Wrap(inner, CodeUnknown, "registry read")
	assert.Equal(t, CodeMoleculeNotFound, wrapped.Code)
}

func TestIsCode(t *testing.T) {
	inner := New(CodeInvalidSMARTS, "dangling operator")
	outer := fmt.Errorf("compile: %w", inner)

	assert.True(t, IsCode(outer, CodeInvalidSMARTS))
	assert.False(t, IsCode(outer, CodeInvalidSMILES))
	assert.False(t, IsCode(nil, CodeInvalidSMARTS))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("gone")))
	assert.True(t, IsNotFound(New(CodeMoleculeNotFound, "gone")))
	assert.False(t, IsNotFound(Internal("boom")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeCache, GetCode(New(CodeCache, "miss")))
}

func TestWithDetail_NilReceiver(t *testing.T) {
	var e *AppError
	assert.Nil(t, e.WithDetail("x"))
}
