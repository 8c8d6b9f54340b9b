package controller

import (
	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/pkg/serverutils"
	"spark-journal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITuningController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
}

type tuningController struct {
	tuningService service.ITuningService
}

func NewTuningController(tuningService service.ITuningService) ITuningController {
	return &tuningController{tuningService: tuningService}
}

func (c *tuningController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tuning/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Get)
	h.Put("", c.Update)
	h.Delete("", c.Reset)
}

func (c *tuningController) Get(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	res, err := c.tuningService.Get(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Tuning settings", res))
}

func (c *tuningController) Update(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.UpdateTuningRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.tuningService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Tuning updated", res))
}

func (c *tuningController) Reset(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	if err := c.tuningService.Reset(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Tuning reset to defaults", nil))
}
