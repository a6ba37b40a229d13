package report

import "context"

// DTRFile is a rendered Daily Time Record ready to be downloaded.
type DTRFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders attendance reports for download
type ReportService interface {
	// GenerateDTR renders the employee's monthly DTR as an .xlsx workbook
	GenerateDTR(ctx context.Context, employeeID string, month, year int) (DTRFile, error)
}
