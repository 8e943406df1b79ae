package stakewiz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gojira-holdings/validator-web/pkg/stakewiz"
)

func TestClientGetValidator(t *testing.T) {
	t.Parallel()

	t.Run("it decodes a validator record", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/validator/VoteAcc123", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"identity": "Ident123",
				"vote_identity": "VoteAcc123",
				"name": "Gojira Holdings",
				"commission": 5,
				"total_apy": 7.2,
				"uptime": 99.98,
				"activated_stake": 850000,
				"delinquent": false,
				"version": "1.18.15",
				"ip_city": "Tokyo",
				"ip_country": "Japan"
			}`))
		}))
		defer server.Close()

		client := stakewiz.NewClient(server.Client(), server.URL)

		// Act
		validator, err := client.GetValidator(t.Context(), "VoteAcc123")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Ident123", validator.Identity)
		assert.Equal(t, "VoteAcc123", validator.VoteIdentity)
		assert.InDelta(t, 5.0, validator.Commission, 0.001)
		assert.InDelta(t, 7.2, validator.APY, 0.001)
		assert.InDelta(t, 99.98, validator.Uptime, 0.001)
		assert.InDelta(t, 850000.0, validator.ActivatedStake, 0.001)
		assert.False(t, validator.Delinquent)
		assert.Equal(t, "1.18.15", validator.Version)
		assert.Equal(t, "Tokyo", validator.IPCity)
	})

	t.Run("it fails on non-200 responses", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "validator not found", http.StatusNotFound)
		}))
		defer server.Close()

		client := stakewiz.NewClient(server.Client(), server.URL)

		// Act
		validator, err := client.GetValidator(t.Context(), "missing")

		// Assert
		require.Error(t, err)
		assert.Nil(t, validator)
		assert.Contains(t, err.Error(), "unexpected status code: 404")
	})

	t.Run("it fails on malformed JSON", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"identity": `))
		}))
		defer server.Close()

		client := stakewiz.NewClient(server.Client(), server.URL)

		// Act
		_, err := client.GetValidator(t.Context(), "VoteAcc123")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding response")
	})
}
