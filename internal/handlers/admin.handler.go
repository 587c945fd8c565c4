package handlers

import (
	"errors"

	"jobfair/internal/app"
	adminController "jobfair/internal/controllers/admin"
	"jobfair/internal/logger"
	"jobfair/internal/repositories"
	"jobfair/internal/utils"
	"jobfair/internal/views"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the booth admin panel and the dispatch diagnostics.
type AdminHandler struct {
	Handler
	controller *adminController.AdminController
	renderer   *views.Renderer
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		controller: app.AdminController,
		renderer:   app.Renderer,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	h.router.Get("/admin", h.getPanel)
}

func (h *AdminHandler) RegisterAPI() {
	h.router.Get("/dispatches", h.getDispatches)
	h.router.Get("/dispatches.csv", h.exportDispatches)
	h.router.Get("/dispatches.xlsx", h.exportWorkbook)
}

func (h *AdminHandler) getPanel(c *fiber.Ctx) error {
	page := h.controller.Panel(c.UserContext(), c.BaseURL())

	c.Type("html", "utf-8")
	if err := h.renderer.Admin(c, page); err != nil {
		h.log.Function("getPanel").Er("failed to render admin panel", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to render admin panel"})
	}
	return nil
}

func (h *AdminHandler) getDispatches(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", repositories.DISPATCH_OUTCOME_RECENT_LIMIT)

	summary, err := h.controller.Dispatches(c.UserContext(), limit)
	if err != nil {
		return h.dispatchError(c, "getDispatches", err)
	}

	return c.JSON(fiber.Map{"message": "success", "dispatches": summary.Dispatches, "counts": summary.Counts})
}

func (h *AdminHandler) exportDispatches(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", repositories.DISPATCH_OUTCOME_RECENT_LIMIT)

	summary, err := h.controller.Dispatches(c.UserContext(), limit)
	if err != nil {
		return h.dispatchError(c, "exportDispatches", err)
	}

	c.Attachment("dispatches.csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	if _, err := utils.WriteDispatchCSV(c.UserContext(), c, summary.Dispatches); err != nil {
		h.log.Function("exportDispatches").Er("failed to write dispatch CSV", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to export dispatches"})
	}
	return nil
}

func (h *AdminHandler) exportWorkbook(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", repositories.DISPATCH_OUTCOME_RECENT_LIMIT)

	buf, name, err := h.controller.Workbook(c.UserContext(), limit)
	if err != nil {
		return h.dispatchError(c, "exportWorkbook", err)
	}

	c.Attachment(name)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}

func (h *AdminHandler) dispatchError(c *fiber.Ctx, function string, err error) error {
	if errors.Is(err, adminController.ErrDiagnosticsDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
	}

	h.log.Function(function).Er("failed to load dispatch outcomes", err)
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"message": "failed to load dispatch outcomes"})
}
