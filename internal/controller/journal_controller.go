package controller

import (
	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/pkg/serverutils"
	"spark-journal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IJournalController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type journalController struct {
	journalService service.IJournalService
}

func NewJournalController(journalService service.IJournalService) IJournalController {
	return &journalController{journalService: journalService}
}

func (c *journalController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/journal/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *journalController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.CreateJournalEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.journalService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create entry", res))
}

func (c *journalController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid entry ID"))
	}

	res, err := c.journalService.Show(ctx.Context(), userId, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Entry not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show entry", res))
}

func (c *journalController) Update(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid entry ID"))
	}

	var req dto.UpdateJournalEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.journalService.Update(ctx.Context(), userId, id, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Entry not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update entry", res))
}

func (c *journalController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid entry ID"))
	}

	if err := c.journalService.Delete(ctx.Context(), userId, id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete entry", nil))
}

func (c *journalController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	res, err := c.journalService.List(ctx.Context(), userId, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list entries", res))
}
