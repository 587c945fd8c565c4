package handlers

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"jobfair/internal/app"
	registrationController "jobfair/internal/controllers/registration"
	"jobfair/internal/form"
	"jobfair/internal/handlers/middleware"
	"jobfair/internal/logger"
	"jobfair/internal/views"

	"github.com/gofiber/fiber/v2"
)

// RegistrationHandler is the JSON form API.
type RegistrationHandler struct {
	Handler
	controller *registrationController.RegistrationController
}

type fieldEditRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func NewRegistrationHandler(app app.App, router fiber.Router) *RegistrationHandler {
	log := logger.New("handlers").File("registration_handler")
	return &RegistrationHandler{
		controller: app.RegistrationController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RegistrationHandler) Register() {
	registration := h.router.Group("/form", h.middleware.Session())
	registration.Get("/", h.getForm)
	registration.Delete("/", h.resetForm)
	registration.Patch("/fields", h.editField)
	registration.Post("/submit", h.submit)
	registration.Post("/dismiss", h.dismiss)
}

func (h *RegistrationHandler) getForm(c *fiber.Ctx) error {
	snapshot, err := h.controller.Current(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		h.log.Function("getForm").Er("failed to load form", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to load form"})
	}

	return c.JSON(h.formResponse("success", snapshot))
}

func (h *RegistrationHandler) resetForm(c *fiber.Ctx) error {
	if err := h.controller.Reset(c.UserContext(), middleware.SessionID(c)); err != nil {
		h.log.Function("resetForm").Er("failed to reset form", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to reset form"})
	}

	return c.JSON(fiber.Map{"message": "success"})
}

func (h *RegistrationHandler) editField(c *fiber.Ctx) error {
	log := h.log.Function("editField")

	var request fieldEditRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse field edit", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse field edit"})
	}

	field, err := form.ParseField(request.Field)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	snapshot, err := h.controller.ApplyEdit(c.UserContext(), middleware.SessionID(c), field, request.Value)
	switch {
	case err == nil:
		return c.JSON(h.formResponse("success", snapshot))
	case errors.Is(err, form.ErrUnknownField):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "field is not part of this form", "field": field})
	case errors.Is(err, form.ErrNotEditing):
		return c.Status(fiber.StatusConflict).JSON(h.formResponse(err.Error(), snapshot))
	default:
		log.Er("failed to apply field edit", err, "field", field)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to apply field edit"})
	}
}

func (h *RegistrationHandler) submit(c *fiber.Ctx) error {
	log := h.log.Function("submit")

	var posted *form.DraftRecord
	var fields []form.Field
	if len(c.Body()) > 0 {
		posted = &form.DraftRecord{}
		if err := c.BodyParser(posted); err != nil {
			log.Er("failed to parse submission", err)
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"message": "failed to parse submission"})
		}

		present, err := postedFields(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		if len(present) == 0 {
			posted = nil
		}
		fields = present
	}

	record, snapshot, err := h.controller.Submit(c.UserContext(), middleware.SessionID(c), posted, fields...)

	var invalid *form.ValidationError
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"message":        "success",
			"state":          snapshot.State,
			"submission":     record,
			"acknowledgment": views.NewAcknowledgment(h.controller.Variant(), record),
		})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"message": "validation failed", "errors": invalid.Errors})
	case errors.Is(err, form.ErrAlreadySubmitted), errors.Is(err, form.ErrSubmitInProgress):
		return c.Status(fiber.StatusConflict).JSON(h.formResponse(err.Error(), snapshot))
	default:
		log.Er("failed to submit form", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to submit form"})
	}
}

func (h *RegistrationHandler) dismiss(c *fiber.Ctx) error {
	snapshot, err := h.controller.Dismiss(c.UserContext(), middleware.SessionID(c))
	switch {
	case err == nil:
		return c.JSON(h.formResponse("success", snapshot))
	case errors.Is(err, form.ErrSubmitInProgress):
		return c.Status(fiber.StatusConflict).JSON(h.formResponse(err.Error(), snapshot))
	default:
		h.log.Function("dismiss").Er("failed to dismiss acknowledgment", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to dismiss acknowledgment"})
	}
}

// postedFields lists the draft keys present in the request body, so a
// partial submission leaves the other fields as previously edited.
func postedFields(c *fiber.Ctx) ([]form.Field, error) {
	keys := make([]string, 0)
	contentType := string(c.Request().Header.ContentType())
	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		var body map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return nil, err
		}
		for key := range body {
			keys = append(keys, key)
		}
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		multipart, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for key := range multipart.Value {
			keys = append(keys, key)
		}
	default:
		c.Request().PostArgs().VisitAll(func(key, _ []byte) {
			keys = append(keys, string(key))
		})
	}

	fields := make([]form.Field, 0, len(keys))
	for _, key := range keys {
		field, err := form.ParseField(key)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(fields, field) {
			fields = append(fields, field)
		}
	}
	return fields, nil
}

func (h *RegistrationHandler) formResponse(message string, snapshot form.Snapshot) fiber.Map {
	response := fiber.Map{
		"message": message,
		"state":   snapshot.State,
		"draft":   snapshot.Draft,
		"errors":  snapshot.Errors,
		"variant": h.controller.Variant(),
	}
	if snapshot.State == form.StateSubmitted && snapshot.LastSubmission != nil {
		response["acknowledgment"] = views.NewAcknowledgment(h.controller.Variant(), *snapshot.LastSubmission)
	}
	return response
}
