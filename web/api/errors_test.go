package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gojira-holdings/validator-web/web/api"
)

func TestAPIErrorHandling(t *testing.T) {
	t.Parallel()

	t.Run("it exposes all error details safely for BadRequest", func(t *testing.T) {
		t.Parallel()

		// Arrange - any validation error (all 4xx are safe by design)
		validationErr := errors.New("invalid stake account address")

		// Act
		apiErr := api.BadRequest(validationErr)

		// Assert
		assert.Equal(t, http.StatusBadRequest, apiErr.HTTPCode())
		assert.Equal(t, "invalid stake account address", apiErr.Error())
		assert.Equal(t, validationErr, apiErr.Cause())
	})

	t.Run("it hides sensitive details for InternalServerError", func(t *testing.T) {
		t.Parallel()

		// Arrange - internal database error (should NOT be exposed)
		internalErr := errors.New("database connection failed: password authentication failed for user 'gojira'")

		// Act
		apiErr := api.InternalServerError(internalErr)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPCode())
		assert.Equal(t, "Internal Server Error", apiErr.Error()) // Generic message, no sensitive info
		assert.Equal(t, internalErr, apiErr.Cause())             // Original error still available for logging
	})

	t.Run("it classifies unknown errors as InternalServerError", func(t *testing.T) {
		t.Parallel()

		// Arrange
		unknownErr := errors.New("some random error")

		// Act
		apiErr := api.Wrap(unknownErr)

		// Assert
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPCode())
		assert.Equal(t, "Internal Server Error", apiErr.Error())
		assert.Equal(t, unknownErr, apiErr.Cause())
	})

	t.Run("it does not double-wrap API errors", func(t *testing.T) {
		t.Parallel()

		// Arrange
		original := api.BadRequest(errors.New("bad address"))

		// Act
		wrapped := api.Wrap(original)

		// Assert
		assert.Same(t, original, wrapped)
	})

	t.Run("it creates correct JSON structure when marshaling", func(t *testing.T) {
		t.Parallel()

		// Arrange
		apiErr := api.BadRequest(errors.New("invalid stake account address"))

		// Act
		jsonBytes, err := json.Marshal(apiErr)

		// Assert
		require.NoError(t, err)

		var response map[string]any
		require.NoError(t, json.Unmarshal(jsonBytes, &response))
		assert.Equal(t, float64(http.StatusBadRequest), response["code"])
		assert.Equal(t, "invalid stake account address", response["message"])
	})

	t.Run("it supports sentinel error matching", func(t *testing.T) {
		t.Parallel()

		// Arrange
		cause := errors.New("boom")
		apiErr := api.InternalServerError(cause)

		// Assert
		assert.ErrorIs(t, apiErr, cause)
	})
}
