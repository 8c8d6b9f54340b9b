package controller

import (
	"fmt"
	"os"

	"spark-journal-be/internal/pkg/serverutils"
	"spark-journal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
}

func NewOAuthController(service service.IOAuthService) IOAuthController {
	return &oauthController{service: service}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	url, err := c.service.GetLoginURL(provider)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.Redirect(url)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")

	if code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing code"))
	}

	res, err := c.service.HandleCallback(ctx.Context(), provider, code)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	redirectURL := fmt.Sprintf("%s/app?token=%s", frontendURL, res.AccessToken)
	return ctx.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
