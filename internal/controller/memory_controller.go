package controller

import (
	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/pkg/serverutils"
	"spark-journal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMemoryController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type memoryController struct {
	memoryService service.IMemoryService
}

func NewMemoryController(memoryService service.IMemoryService) IMemoryController {
	return &memoryController{memoryService: memoryService}
}

func (c *memoryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/memory/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Post("/search", c.Search)
}

func (c *memoryController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.CreateMemoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.memoryService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create memory", res))
}

func (c *memoryController) Search(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.SearchMemoriesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.memoryService.Search(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Search results", res))
}
