package controller

import (
	"errors"

	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/pkg/serverutils"
	"spark-journal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISparkController interface {
	RegisterRoutes(r fiber.Router)
	ParagraphEvent(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
	Recent(ctx *fiber.Ctx) error
	RunTrace(ctx *fiber.Ctx) error
}

type sparkController struct {
	sparkService service.ISparkService
}

func NewSparkController(sparkService service.ISparkService) ISparkController {
	return &sparkController{sparkService: sparkService}
}

func (c *sparkController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/spark/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/events", c.ParagraphEvent)
	h.Post("/:id/feedback", c.Feedback)
	h.Get("/recent/:entryId", c.Recent)
	h.Get("/runs/:runId", c.RunTrace)
}

// ParagraphEvent feeds an editor event into the trigger controller. Accepted
// nudges arrive over the websocket when the debounced run completes, so this
// endpoint only acknowledges.
func (c *sparkController) ParagraphEvent(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.ParagraphEditRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.sparkService.HandleParagraphEvent(ctx.Context(), userId, &req); err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Entry not found"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("Paragraph event accepted", nil))
}

func (c *sparkController) Feedback(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	nudgeId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid nudge ID"))
	}

	var req dto.SparkFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.sparkService.Feedback(ctx.Context(), userId, nudgeId, &req)
	if err != nil {
		if errors.Is(err, service.ErrNudgeNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Nudge not found"))
		}
		if errors.Is(err, service.ErrFeedbackReasonRequired) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback recorded", res))
}

func (c *sparkController) Recent(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	entryId, err := uuid.Parse(ctx.Params("entryId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid entry ID"))
	}

	res, err := c.sparkService.Recent(ctx.Context(), userId, entryId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Recent sparks", res))
}

func (c *sparkController) RunTrace(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == uuid.Nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	runId, err := uuid.Parse(ctx.Params("runId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid run ID"))
	}

	res, err := c.sparkService.RunTrace(ctx.Context(), userId, runId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Run not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Run trace", res))
}
