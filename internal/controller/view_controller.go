package controller

import (
	"time"

	"decipher-research-be/internal/pkg/serverutils"
	"decipher-research-be/internal/service"
	"decipher-research-be/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IViewController serves the render-ready projections: the notebook summary
// card and the page footer.
type IViewController interface {
	RegisterRoutes(r fiber.Router)
	NotebookCard(ctx *fiber.Ctx) error
	Footer(ctx *fiber.Ctx) error
}

type viewController struct {
	notebookService service.INotebookService
}

func NewViewController(notebookService service.INotebookService) IViewController {
	return &viewController{notebookService: notebookService}
}

func (c *viewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/view/v1")
	h.Get("/footer", c.Footer)
	h.Get("/notebooks/:id/card", serverutils.JwtMiddleware, c.NotebookCard)
}

func (c *viewController) NotebookCard(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notebook id")
	}

	card, err := c.notebookService.GetCard(ctx.Context(), userId, id)
	if err != nil {
		return mapNotebookError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get notebook card", card))
}

// Footer is public and needs no auth. The year comes from the wall clock on
// every request so the process never serves a stale copyright.
func (c *viewController) Footer(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get footer", view.BuildFooter(time.Now())))
}
