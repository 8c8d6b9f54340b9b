package controller

import (
	"spark-journal-be/internal/pkg/serverutils"
	"spark-journal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Profile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	DeleteAccount(ctx *fiber.Ctx) error
}

type userController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) IUserController {
	return &userController{userService: userService}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/me", c.Profile)
	h.Put("/me", c.UpdateProfile)
	h.Delete("/me", c.DeleteAccount)
}

// currentUserId pulls the authenticated user out of the JWT middleware's
// locals. Returns uuid.Nil when the claim is missing or malformed.
func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil
	}
	return userId
}

func (c *userController) Profile(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	res, err := c.userService.GetProfile(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Profile", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req struct {
		FullName string `json:"full_name" validate:"required,min=3"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.userService.UpdateFullName(ctx.Context(), userId, req.FullName); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Profile updated", nil))
}

func (c *userController) DeleteAccount(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	if err := c.userService.DeleteAccount(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Account deleted", nil))
}
