package errors

import (
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseError() error {
	return TypeMismatch("bad int").WithMeta(MetaPath, "fg_color.red")
}

func wrapError() error {
	return Wrap(baseError(), "load shape")
}

func TestSentinelMatchesByCodeAndReason(t *testing.T) {
	err := baseError()
	assert.True(t, Is(err, ErrTypeMismatch))
	assert.True(t, IsTypeMismatch(err))
	assert.False(t, IsMalformed(err))
	assert.False(t, IsStructureMismatch(err))
}

func TestWrappedErrorKeepsReason(t *testing.T) {
	err := wrapError()
	assert.True(t, IsTypeMismatch(err))
	assert.Equal(t, MismatchType, Reason(err))
	assert.Equal(t, TypeMismatchCode, Code(err))
	assert.Equal(t, "fg_color.red", Meta(err, MetaPath))
}

func TestWithErrorUnwraps(t *testing.T) {
	_, cause := strconv.Atoi("x")
	err := Malformed("not an int").WithError(cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsMalformed(err))
}

func TestWithDoesNotMutateSentinel(t *testing.T) {
	err := ErrMalformed.WithMessage("custom").WithMeta(MetaLine, "3")
	assert.Equal(t, MalformedDocument, ErrMalformed.Message)
	assert.Empty(t, ErrMalformed.Metadata)
	assert.Equal(t, "custom", err.Message)
	assert.Equal(t, "3", err.Metadata[MetaLine])
}

func TestErrorRendersJSON(t *testing.T) {
	_, cause := strconv.Atoi("x")
	err := StructureMismatch("expected scope").WithMeta(MetaPath, "bg_color").WithError(cause)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(err.Error()), &out))
	assert.Equal(t, MismatchStructure, out["reason"])
	assert.EqualValues(t, StructureMismatchCode, out["code"])
	assert.Contains(t, out["error"], "invalid syntax")
}

func TestFromForeignError(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	assert.Equal(t, UnknownReason, err.Reason)
	assert.EqualValues(t, UnknownCode, err.Code)
	assert.Nil(t, FromError(nil))
	assert.Equal(t, UnknownReason, Reason(nil))
}
