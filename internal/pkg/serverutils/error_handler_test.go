package serverutils

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())

	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("All good", fiber.Map{"value": 1}))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Entry not found")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	return app
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantMessage string
	}{
		{"passthrough on success", "/ok", http.StatusOK, "All good"},
		{"fiber error keeps its code", "/missing", http.StatusNotFound, "Entry not found"},
		{"plain error becomes 500 envelope", "/boom", http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body ApiResponse[any]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestErrorResponseOmitsData(t *testing.T) {
	raw, err := json.Marshal(ErrorResponse(404, "gone"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "data")
}
