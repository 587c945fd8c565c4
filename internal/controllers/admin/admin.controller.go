package adminController

import (
	"bytes"
	"context"
	"errors"
	"time"

	"jobfair/internal/logger"
	"jobfair/internal/qrcode"
	"jobfair/internal/repositories"
	"jobfair/internal/services"
	"jobfair/internal/views"

	. "jobfair/internal/models"
)

var ErrDiagnosticsDisabled = errors.New("dispatch diagnostics are disabled")

type AdminController struct {
	outcomeRepo   repositories.DispatchOutcomeRepository
	exportService *services.ExportService
	locator       qrcode.Locator
	log           logger.Logger
}

// New accepts a nil outcomeRepo when no database is configured.
func New(
	outcomeRepo repositories.DispatchOutcomeRepository,
	exportService *services.ExportService,
	locator qrcode.Locator,
) *AdminController {
	return &AdminController{
		outcomeRepo:   outcomeRepo,
		exportService: exportService,
		locator:       locator,
		log:           logger.New("AdminController"),
	}
}

type DispatchSummary struct {
	Dispatches []*DispatchOutcome `json:"dispatches"`
	Counts     map[string]int64   `json:"counts"`
}

func (c *AdminController) DiagnosticsEnabled() bool {
	return c.outcomeRepo != nil
}

func (c *AdminController) Dispatches(ctx context.Context, limit int) (DispatchSummary, error) {
	log := c.log.Function("Dispatches")

	if c.outcomeRepo == nil {
		return DispatchSummary{}, ErrDiagnosticsDisabled
	}

	outcomes, err := c.outcomeRepo.GetRecent(ctx, limit)
	if err != nil {
		return DispatchSummary{}, log.Err("failed to get recent dispatches", err, "limit", limit)
	}

	counts, err := c.outcomeRepo.CountByStatus(ctx)
	if err != nil {
		return DispatchSummary{}, log.Err("failed to count dispatches", err)
	}

	return DispatchSummary{Dispatches: outcomes, Counts: counts}, nil
}

// Workbook exports the most recent dispatches as an XLSX file.
func (c *AdminController) Workbook(ctx context.Context, limit int) (*bytes.Buffer, string, error) {
	summary, err := c.Dispatches(ctx, limit)
	if err != nil {
		return nil, "", err
	}

	buf, name, err := c.exportService.DispatchWorkbook(ctx, summary.Dispatches, time.Now())
	if err != nil {
		return nil, "", c.log.Function("Workbook").Err("failed to export dispatches", err)
	}
	return buf, name, nil
}

// Panel builds the admin page for a request made from origin. Diagnostics
// failures degrade to an empty table.
func (c *AdminController) Panel(ctx context.Context, origin string) views.AdminPage {
	summary, err := c.Dispatches(ctx, repositories.DISPATCH_OUTCOME_RECENT_LIMIT)
	if err != nil && !errors.Is(err, ErrDiagnosticsDisabled) {
		c.log.Function("Panel").Warn("showing admin panel without dispatches", "error", err)
	}

	return views.NewAdminPage(c.locator, origin, summary.Dispatches, summary.Counts)
}
