package handlers

import (
	"errors"

	"jobfair/internal/app"
	registrationController "jobfair/internal/controllers/registration"
	"jobfair/internal/form"
	"jobfair/internal/handlers/middleware"
	"jobfair/internal/logger"
	"jobfair/internal/views"

	"github.com/gofiber/fiber/v2"
)

// FormHandler serves the HTML registration form.
type FormHandler struct {
	Handler
	controller *registrationController.RegistrationController
	renderer   *views.Renderer
}

func NewFormHandler(app app.App, router fiber.Router) *FormHandler {
	log := logger.New("handlers").File("form_handler")
	return &FormHandler{
		controller: app.RegistrationController,
		renderer:   app.Renderer,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *FormHandler) Register() {
	session := h.middleware.Session()

	h.router.Get("/", session, h.getForm)
	h.router.Post("/", session, h.submitForm)
	h.router.Post("/dismiss", session, h.dismiss)
}

func (h *FormHandler) getForm(c *fiber.Ctx) error {
	snapshot, err := h.controller.Current(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		h.log.Function("getForm").Er("failed to load form", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to load form"})
	}

	if snapshot.State == form.StateSubmitted && snapshot.LastSubmission != nil {
		return h.renderAcknowledgment(c, fiber.StatusOK, *snapshot.LastSubmission)
	}
	return h.renderForm(c, fiber.StatusOK, snapshot)
}

func (h *FormHandler) submitForm(c *fiber.Ctx) error {
	log := h.log.Function("submitForm")

	var draft form.DraftRecord
	if err := c.BodyParser(&draft); err != nil {
		log.Er("failed to parse form", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse form"})
	}

	record, snapshot, err := h.controller.Submit(c.UserContext(), middleware.SessionID(c), &draft)

	var invalid *form.ValidationError
	switch {
	case err == nil:
		return h.renderAcknowledgment(c, fiber.StatusOK, record)
	case errors.As(err, &invalid):
		return h.renderForm(c, fiber.StatusUnprocessableEntity, snapshot)
	case errors.Is(err, form.ErrAlreadySubmitted) && snapshot.LastSubmission != nil:
		return h.renderAcknowledgment(c, fiber.StatusConflict, *snapshot.LastSubmission)
	case errors.Is(err, form.ErrSubmitInProgress), errors.Is(err, form.ErrAlreadySubmitted):
		return h.renderForm(c, fiber.StatusConflict, snapshot)
	default:
		log.Er("failed to submit form", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to submit form"})
	}
}

func (h *FormHandler) dismiss(c *fiber.Ctx) error {
	if _, err := h.controller.Dismiss(c.UserContext(), middleware.SessionID(c)); err != nil &&
		!errors.Is(err, form.ErrSubmitInProgress) {
		h.log.Function("dismiss").Er("failed to dismiss acknowledgment", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to dismiss acknowledgment"})
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *FormHandler) renderForm(c *fiber.Ctx, status int, snapshot form.Snapshot) error {
	page := views.NewFormPage(h.controller.Variant(), snapshot.State, snapshot.Draft, snapshot.Errors)

	c.Status(status).Type("html", "utf-8")
	if err := h.renderer.Form(c, page); err != nil {
		h.log.Function("renderForm").Er("failed to render form", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to render form"})
	}
	return nil
}

func (h *FormHandler) renderAcknowledgment(c *fiber.Ctx, status int, record form.SubmissionRecord) error {
	c.Status(status).Type("html", "utf-8")
	if err := h.renderer.Acknowledgment(c, views.NewAcknowledgment(h.controller.Variant(), record)); err != nil {
		h.log.Function("renderAcknowledgment").Er("failed to render acknowledgment", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to render acknowledgment"})
	}
	return nil
}
