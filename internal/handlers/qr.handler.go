package handlers

import (
	"jobfair/internal/app"
	"jobfair/internal/logger"
	"jobfair/internal/qrcode"
	"jobfair/internal/views"

	"github.com/gofiber/fiber/v2"
)

type QRHandler struct {
	Handler
	locator     qrcode.Locator
	renderer    *views.Renderer
	defaultSize int
}

func NewQRHandler(app app.App, router fiber.Router) *QRHandler {
	log := logger.New("handlers").File("qr_handler")
	return &QRHandler{
		locator:     app.Locator,
		renderer:    app.Renderer,
		defaultSize: app.Config.QRSize,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *QRHandler) Register() {
	h.router.Get("/qr", h.getPage)
}

func (h *QRHandler) RegisterAPI() {
	h.router.Get("/qr", h.getURL)
}

func (h *QRHandler) size(c *fiber.Ctx) int {
	return c.QueryInt("size", h.defaultSize)
}

func (h *QRHandler) getPage(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	if err := h.renderer.QR(c, views.NewQRPage(h.locator, h.size(c))); err != nil {
		h.log.Function("getPage").Er("failed to render qr page", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to render qr page"})
	}
	return nil
}

// getURL encodes the url query parameter, or the configured form URL when
// it is absent.
func (h *QRHandler) getURL(c *fiber.Ctx) error {
	target := c.Query("url", h.locator.FormURL())
	size := h.size(c)
	if size <= 0 {
		size = qrcode.DefaultSize
	}

	return c.JSON(fiber.Map{
		"message":  "success",
		"formUrl":  target,
		"imageUrl": h.locator.GenerateQRCodeURL(target, size),
		"size":     size,
	})
}
