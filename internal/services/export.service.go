package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"jobfair/internal/logger"
	"jobfair/internal/models"

	"github.com/xuri/excelize/v2"
)

const DISPATCH_SHEET_NAME = "Dispatches"

var dispatchSheetHeaders = []string{
	"Time / 日時", "Submission / 送信ID", "Status / 状態", "HTTP", "Duration (ms)", "Error / エラー",
}

type ExportService struct {
	log logger.Logger
}

func NewExportService() *ExportService {
	return &ExportService{log: logger.New("ExportService")}
}

// DispatchWorkbook renders outcomes as a single sheet workbook and returns
// it with a suggested file name.
func (s *ExportService) DispatchWorkbook(ctx context.Context, outcomes []*models.DispatchOutcome, now time.Time) (*bytes.Buffer, string, error) {
	log := s.log.Function("DispatchWorkbook")

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	idx, err := f.NewSheet(DISPATCH_SHEET_NAME)
	if err != nil {
		return nil, "", log.Err("failed to create sheet", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetColWidth(DISPATCH_SHEET_NAME, "A", "A", 22)
	_ = f.SetColWidth(DISPATCH_SHEET_NAME, "B", "B", 40)
	_ = f.SetColWidth(DISPATCH_SHEET_NAME, "C", "E", 14)
	_ = f.SetColWidth(DISPATCH_SHEET_NAME, "F", "F", 48)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#00B7CE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", log.Err("failed to create header style", err)
	}

	for i, header := range dispatchSheetHeaders {
		name, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(DISPATCH_SHEET_NAME, name, header); err != nil {
			return nil, "", log.Err("failed to write header", err, "cell", name)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(dispatchSheetHeaders), 1)
	_ = f.SetCellStyle(DISPATCH_SHEET_NAME, "A1", lastHeader, headerStyle)

	for i, outcome := range outcomes {
		if ctx.Err() != nil {
			return nil, "", fmt.Errorf("dispatch export cancelled: %w", ctx.Err())
		}

		errorMessage := ""
		if outcome.ErrorMessage != nil {
			errorMessage = *outcome.ErrorMessage
		}

		row := []any{
			outcome.CreatedAt.UTC().Format(time.RFC3339),
			outcome.SubmissionID,
			outcome.Status,
			outcome.HTTPStatus,
			outcome.DurationMs,
			errorMessage,
		}
		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(DISPATCH_SHEET_NAME, start, &row); err != nil {
			return nil, "", log.Err("failed to write row", err, "row", i+2)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", log.Err("failed to write workbook", err)
	}

	return buf, fmt.Sprintf("dispatches-%s.xlsx", now.UTC().Format("20060102-150405")), nil
}
