package serverutils

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": "11111111-2222-3333-4444-555555555555",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JwtSecret())
	require.NoError(t, err)
	return token
}

func newJwtTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", JwtMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("ok", fiber.Map{"user_id": c.Locals("user_id")}))
	})
	return app
}

// Tokens must verify against the same key they were signed with, including
// when JWT_SECRET is unset and the development fallback applies.
func TestJwtMiddlewareAcceptsTokenSignedWithSharedSecret(t *testing.T) {
	for _, secret := range []string{"", "per-deploy-secret"} {
		t.Setenv("JWT_SECRET", secret)
		app := newJwtTestApp()

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t))

		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "secret=%q", secret)
	}
}

func TestJwtMiddlewareRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "per-deploy-secret")
	app := newJwtTestApp()

	tests := []struct {
		name  string
		setup func(req *http.Request)
	}{
		{"missing header", func(req *http.Request) {}},
		{"malformed token", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer not.a.jwt")
		}},
		{"wrong key", func(req *http.Request) {
			claims := jwt.MapClaims{"user_id": "x", "exp": time.Now().Add(time.Hour).Unix()}
			token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-key"))
			req.Header.Set("Authorization", "Bearer "+token)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			tt.setup(req)

			resp, err := app.Test(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}
