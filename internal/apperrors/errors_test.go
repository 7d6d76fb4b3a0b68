package apperrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"ldpstore/internal/apperrors"
)

func TestInternal_UnwrapsUnderlyingError(t *testing.T) {
	// Arrange
	cause := errors.New("connection refused")

	// Act
	err := apperrors.Internal("select failed", cause)

	// Assert
	assert.True(t, apperrors.IsInternal(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIs_DistinguishesTypes(t *testing.T) {
	assert.True(t, apperrors.IsInvalidArgument(apperrors.InvalidArgument("x")))
	assert.True(t, apperrors.IsUnsupported(apperrors.Unsupported("x")))
	assert.True(t, apperrors.IsValidation(apperrors.Validation("x")))
	assert.False(t, apperrors.IsInternal(apperrors.Validation("x")))
}

func TestWrap_PreservesTypeAndPrependsMessage(t *testing.T) {
	// Arrange
	original := apperrors.Unsupported("purge is not supported")

	// Act
	wrapped := apperrors.Wrap(original, "handling request")

	// Assert
	assert.True(t, apperrors.IsUnsupported(wrapped))
	assert.Contains(t, wrapped.Error(), "handling request")
	assert.Contains(t, wrapped.Error(), "purge is not supported")
}

func TestWrap_NilIsNil(t *testing.T) {
	assert.Nil(t, apperrors.Wrap(nil, "noop"))
}

func TestInternal_DefaultsRetryableAndStatusCode(t *testing.T) {
	// Act
	err := apperrors.Internal("select failed", errors.New("timeout"))

	// Assert
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, 500, apperrors.StatusCodeOf(err))
}

func TestValidation_IsNotRetryableAndMapsTo422(t *testing.T) {
	// Act
	err := apperrors.Validation("bad request body")

	// Assert
	assert.False(t, apperrors.IsRetryable(err))
	assert.Equal(t, 422, apperrors.StatusCodeOf(err))
}

func TestWrap_CarriesRetryableAndStatusCodeThrough(t *testing.T) {
	// Arrange
	original := apperrors.Internal("select failed", errors.New("timeout"))

	// Act
	wrapped := apperrors.Wrap(original, "handling request")

	// Assert
	assert.True(t, apperrors.IsRetryable(wrapped))
	assert.Equal(t, 500, apperrors.StatusCodeOf(wrapped))
}

func TestWithCode_NarrowsErrorIdentity(t *testing.T) {
	// Arrange
	sentinel := apperrors.Internal("quad store unreachable", nil).(*apperrors.Error).WithCode("QUAD_STORE_UNREACHABLE")

	// Act
	other := apperrors.Internal("quad store unreachable", nil).(*apperrors.Error).WithCode("QUAD_STORE_UNREACHABLE")
	mismatched := apperrors.Internal("quad store unreachable", nil).(*apperrors.Error).WithCode("DIFFERENT_CODE")

	// Assert
	assert.True(t, errors.Is(other, sentinel))
	assert.False(t, errors.Is(mismatched, sentinel))
}
