// Package views renders the server side HTML pages: the registration form,
// the acknowledgment, the QR display and the admin panel.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"unicode/utf8"

	"jobfair/internal/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	PageForm           = "form"
	PageAcknowledgment = "acknowledgment"
	PageQR             = "qr"
	PageAdmin          = "admin"
)

var pages = []string{PageForm, PageAcknowledgment, PageQR, PageAdmin}

var funcs = template.FuncMap{
	"runeCount": utf8.RuneCountInString,
	"join":      strings.Join,
	"lower":     strings.ToLower,
}

// Renderer holds one parsed template set per page, each layered on base.tmpl.
type Renderer struct {
	templates map[string]*template.Template
	log       logger.Logger
}

func NewRenderer() (*Renderer, error) {
	log := logger.New("views").Function("NewRenderer")

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New("base.tmpl").Funcs(funcs).ParseFS(
			templateFS,
			"templates/base.tmpl",
			"templates/"+page+".tmpl",
		)
		if err != nil {
			return nil, log.Err("failed to parse page template", err, "page", page)
		}
		templates[page] = tmpl
	}

	return &Renderer{
		templates: templates,
		log:       logger.New("views"),
	}, nil
}

// Render executes page into w. Output is buffered so a failing template never
// leaves a half written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.templates[page]
	if !ok {
		return r.log.Function("Render").Error("unknown page", "page", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return r.log.Function("Render").Err("failed to execute page template", err, "page", page)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write page %s: %w", page, err)
	}
	return nil
}

func (r *Renderer) Form(w io.Writer, page FormPage) error {
	return r.Render(w, PageForm, page)
}

func (r *Renderer) Acknowledgment(w io.Writer, ack Acknowledgment) error {
	return r.Render(w, PageAcknowledgment, ack)
}

func (r *Renderer) QR(w io.Writer, page QRPage) error {
	return r.Render(w, PageQR, page)
}

func (r *Renderer) Admin(w io.Writer, page AdminPage) error {
	return r.Render(w, PageAdmin, page)
}
