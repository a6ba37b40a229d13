package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	dtrSheet       = "DTR"
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	headerRow      = 5
	firstDayRow    = headerRow + 1
	totalsRow      = firstDayRow + attendance.MonthDays
	clockCellValue = "15:04"
)

var dtrColumns = []string{
	"Day", "AM Arrival", "AM Departure", "PM Arrival", "PM Departure",
	"Hours", "Status", "Undertime (h)", "Undertime (m)",
}

type ReportServiceImpl struct {
	attendanceSvc attendance.AttendanceService
}

func NewReportService(attendanceSvc attendance.AttendanceService) report.ReportService {
	return &ReportServiceImpl{
		attendanceSvc: attendanceSvc,
	}
}

// GenerateDTR implements report.ReportService.
func (s *ReportServiceImpl) GenerateDTR(ctx context.Context, employeeID string, month, year int) (report.DTRFile, error) {
	rep, err := s.attendanceSvc.MonthReport(ctx, employeeID, month, year)
	if err != nil {
		return report.DTRFile{}, err
	}

	content, err := RenderDTR(rep)
	if err != nil {
		return report.DTRFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
	}

	return report.DTRFile{
		FileName:    fmt.Sprintf("dtr-%s-%04d-%02d.xlsx", employeeID, year, month),
		ContentType: xlsxMIME,
		Content:     content,
	}, nil
}

// RenderDTR writes the month report as a single-sheet workbook: a title block,
// one row per day 1..31 and a totals row. The live day is shown but marked.
func RenderDTR(rep attendance.MonthReport) ([]byte, error) {
	loc := rep.Location
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), dtrSheet); err != nil {
		return nil, err
	}

	title := [][]interface{}{
		{"DAILY TIME RECORD"},
		{"Employee", rep.EmployeeID},
		{"Period", time.Date(rep.Year, time.Month(rep.Month), 1, 0, 0, 0, 0, loc).Format("January 2006")},
		{"Timezone", timezoneLabel(rep)},
	}
	for i, row := range title {
		if err := setRow(f, i+1, row); err != nil {
			return nil, err
		}
	}

	header := make([]interface{}, len(dtrColumns))
	for i, c := range dtrColumns {
		header[i] = c
	}
	if err := setRow(f, headerRow, header); err != nil {
		return nil, err
	}

	for i, slot := range rep.Days {
		row := []interface{}{slot.Day}
		rec := slot.Record
		suffix := ""
		if slot.IsToday && rep.Today != nil {
			rec = rep.Today
			suffix = " (ongoing)"
		}
		if slot.Valid && rec != nil {
			row = append(row,
				clockCell(rec.AMArrival, loc),
				clockCell(rec.AMDeparture, loc),
				clockCell(rec.PMArrival, loc),
				clockCell(rec.PMDeparture, loc),
				rec.TotalHours,
				string(rec.Status)+suffix,
				rec.UndertimeHours,
				rec.UndertimeMinutes,
			)
		}
		if err := setRow(f, firstDayRow+i, row); err != nil {
			return nil, err
		}
	}

	totals := []interface{}{
		"Total", "", "", "", "",
		rep.TotalHours,
		fmt.Sprintf("%d present / %d undertime", rep.PresentDays, rep.UndertimeDays),
		rep.UndertimeHours,
		rep.UndertimeMinutes,
	}
	if err := setRow(f, totalsRow, totals); err != nil {
		return nil, err
	}

	if err := styleSheet(f); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(dtrSheet, cell, &values)
}

func styleSheet(f *excelize.File) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(dtrColumns))
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(dtrSheet, "A1", "A4", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(dtrSheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(dtrSheet, fmt.Sprintf("A%d", totalsRow), fmt.Sprintf("%s%d", lastCol, totalsRow), bold); err != nil {
		return err
	}
	return f.SetColWidth(dtrSheet, "A", lastCol, 14)
}

func clockCell(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(clockCellValue)
}

func timezoneLabel(rep attendance.MonthReport) string {
	if rep.TimezoneFallback {
		return fmt.Sprintf("%s (fallback: %s)", rep.Timezone, rep.TimezoneFallbackReason)
	}
	return rep.Timezone
}
