package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"matchai-service/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFail(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", model.NewValidationError("Invalid status", map[string]string{"status": "bad"}), fiber.StatusBadRequest, "Invalid status"},
		{"unauthenticated", model.NewUnauthenticatedError(), fiber.StatusUnauthorized, "Not authenticated"},
		{"unauthorized", model.NewUnauthorizedError("Not authorized"), fiber.StatusUnauthorized, "Not authorized"},
		{"not found", model.NewNotFoundError("Match"), fiber.StatusNotFound, "Match not found"},
		{"internal", model.NewInternalError(errors.New("pq: connection refused")), fiber.StatusInternalServerError, "Internal server error"},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return fail(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, tc.message, body["message"])
			assert.NotContains(t, string(raw), "pq:")
		})
	}
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, id)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/12", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, path := range []string{"/abc", "/0", "/-3"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
	}
}
