package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, handler fiber.Handler) (*http.Response, map[string]any) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp, body
}

func TestSuccess_EnvelopeShape(t *testing.T) {
	t.Parallel()

	resp, body := render(t, func(c *fiber.Ctx) error {
		return Success(c, fiber.Map{"_id": "abc"}, "Data created successfully", http.StatusCreated)
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(http.StatusCreated), body["status"])
	assert.Equal(t, "Data created successfully", body["message"])
	assert.Equal(t, map[string]any{"_id": "abc"}, body["data"])
	_, hasErrors := body["errors"]
	assert.False(t, hasErrors, "success envelope never carries errors")
}

func TestFail_OmitsEmptyErrors(t *testing.T) {
	t.Parallel()

	resp, body := render(t, func(c *fiber.Ctx) error {
		return Fail(c, "Data not found", http.StatusNotFound, nil)
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "Data not found", body["message"])
	_, hasErrors := body["errors"]
	assert.False(t, hasErrors)
	_, hasData := body["data"]
	assert.False(t, hasData, "failure envelope never carries data")
}

func TestFail_RendersDetails(t *testing.T) {
	t.Parallel()

	_, body := render(t, func(c *fiber.Ctx) error {
		return Fail(c, "Missing required fields", http.StatusBadRequest, map[string]any{"field": "title"})
	})

	assert.Equal(t, map[string]any{"field": "title"}, body["errors"])
}

func TestFrom_PassesThroughTaxonomyErrors(t *testing.T) {
	t.Parallel()

	err := NewConflict("Email already registered", nil)
	appErr := From(err)

	assert.Equal(t, CodeConflict, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
	assert.Equal(t, "Email already registered", appErr.Message)
}

func TestFrom_UnwrapsWrappedTaxonomyErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("loading user: %w", NewNotFound("Data not found", nil))
	appErr := From(wrapped)

	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

func TestFrom_MapsNoRowsToNotFound(t *testing.T) {
	t.Parallel()

	appErr := From(pgx.ErrNoRows)

	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.Equal(t, "Data not found", appErr.Message)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

func TestFrom_UnknownErrorRendersGenericMessage(t *testing.T) {
	t.Parallel()

	cause := errors.New("pq: connection refused")
	appErr := From(cause)

	assert.Equal(t, CodeUnexpected, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.ErrorIs(t, appErr, cause, "cause preserved for server-side logs")
}

func TestFrom_FiberError(t *testing.T) {
	t.Parallel()

	appErr := From(fiber.ErrMethodNotAllowed)

	assert.Equal(t, http.StatusMethodNotAllowed, appErr.HTTPStatus)
}
