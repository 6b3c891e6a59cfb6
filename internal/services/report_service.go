package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// reportService renders transaction exports. It reuses the analytics search
// so a report covers exactly what the matching search screen shows.
type reportService struct {
	analytics AnalyticsServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(analytics AnalyticsServicer) ReportServicer {
	return &reportService{analytics: analytics}
}

var reportColumns = []string{"Date", "Category", "Description", "Amount", "Type"}

// TransactionsCSV renders the matching transactions as CSV.
func (s *reportService) TransactionsCSV(userID uint, freeText string, window TimeWindow) ([]byte, error) {
	txns, err := s.analytics.Search(userID, freeText, window)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportColumns); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, txn := range txns {
		record := []string{
			txn.Date.Format("2006-01-02"),
			txn.Category,
			txn.Note,
			formatAmount(txn.Amount),
			string(txn.Type),
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}

// TransactionsPDF renders the matching transactions as a PDF table.
func (s *reportService) TransactionsPDF(userID uint, freeText string, window TimeWindow) ([]byte, error) {
	txns, err := s.analytics.Search(userID, freeText, window)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Transactions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	widths := []float64{28, 34, 66, 30, 24}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range reportColumns {
		pdf.CellFormat(widths[i], 8, col, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	var totalIncome, totalExpense int64
	for _, txn := range txns {
		row := []string{
			txn.Date.Format("2006-01-02"),
			txn.Category,
			txn.Note,
			formatAmount(txn.Amount),
			string(txn.Type),
		}
		for i, cell := range row {
			align := "L"
			if i == 3 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)

		switch txn.Type {
		case models.TransactionTypeIncome:
			totalIncome += txn.Amount
		case models.TransactionTypeExpense:
			totalExpense += txn.Amount
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 7, fmt.Sprintf("Income: %s    Expense: %s    Net: %s",
		formatAmount(totalIncome), formatAmount(totalExpense), formatAmount(totalIncome-totalExpense)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}

// formatAmount renders cents as a plain decimal string, e.g. 1250 -> "12.50".
func formatAmount(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
