package controller

import (
	"errors"

	"decipher-research-be/internal/dto"
	"decipher-research-be/internal/pkg/serverutils"
	"decipher-research-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IResearchController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	TaskStatus(ctx *fiber.Ctx) error
	ListTasks(ctx *fiber.Ctx) error
	AddSource(ctx *fiber.Ctx) error
	SearchSources(ctx *fiber.Ctx) error
}

type researchController struct {
	researchService service.IResearchService
	sourceService   service.ISourceService
}

func NewResearchController(researchService service.IResearchService, sourceService service.ISourceService) IResearchController {
	return &researchController{
		researchService: researchService,
		sourceService:   sourceService,
	}
}

func (c *researchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/research/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/tasks", c.Submit)
	h.Get("/tasks", c.ListTasks)
	h.Get("/tasks/:id", c.TaskStatus)
	h.Post("/notebooks/:id/sources", c.AddSource)
	h.Post("/sources/search", c.SearchSources)
}

func (c *researchController) Submit(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SubmitResearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.researchService.Submit(ctx.Context(), userId, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotebookNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrResearchAlreadyRunning):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrNoTopicOrSources), errors.Is(err, service.ErrTopicWithSources):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Research task submitted", res))
}

func (c *researchController) TaskStatus(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	taskId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid task id")
	}

	res, err := c.researchService.GetTaskStatus(ctx.Context(), userId, taskId)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get task status", res))
}

func (c *researchController) ListTasks(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var notebookId *uuid.UUID
	if raw := ctx.Query("notebook_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid notebook_id filter")
		}
		notebookId = &id
	}

	res, err := c.researchService.ListTasks(ctx.Context(), userId, notebookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list tasks", res))
}

func (c *researchController) AddSource(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	notebookId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notebook id")
	}

	var req dto.ResearchSourceInput
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sourceId, err := c.sourceService.AddSource(ctx.Context(), userId, notebookId, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotebookNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if errors.Is(err, service.ErrSourceContentMissing) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add source", fiber.Map{"source_id": sourceId}))
}

func (c *researchController) SearchSources(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SearchSourcesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sourceService.SearchSources(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotebookNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search sources", res))
}
