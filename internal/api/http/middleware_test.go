package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/observability"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func TestErrorHandlingMiddleware(t *testing.T) {
	newApp := func(metrics *observability.Metrics) *fiber.App {
		app := fiber.New()
		RegisterMiddlewares(app, zap.NewNop(), metrics, 2*time.Second)
		app.Get("/boom", func(c *fiber.Ctx) error {
			return apperrors.NewValidationError("title must be at least 5 characters long", nil)
		})
		app.Get("/panic", func(c *fiber.Ctx) error {
			panic("unexpected")
		})
		app.Get("/ok", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"message": "ok"})
		})
		return app
	}

	t.Run("domain error maps to fail envelope", func(t *testing.T) {
		app := newApp(observability.NewMetrics())
		resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "fail", body["status"])
		assert.Equal(t, "title must be at least 5 characters long", body["message"])
	})

	t.Run("panic maps to error envelope", func(t *testing.T) {
		app := newApp(observability.NewMetrics())
		resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "error", body["status"])
	})

	t.Run("request counters carry the mapped status", func(t *testing.T) {
		metrics := observability.NewMetrics()
		app := newApp(metrics)

		_, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
		require.NoError(t, err)
		_, err = app.Test(httptest.NewRequest("GET", "/ok", nil))
		require.NoError(t, err)

		requests, errCounts := metrics.Snapshot()
		assert.Equal(t, int64(1), requests["/boom|GET|400"])
		assert.Equal(t, int64(1), requests["/ok|GET|200"])
		assert.Equal(t, int64(1), errCounts["/boom|GET|VALIDATION_FAILED"])
	})
}
