package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// ReportHandler serves transaction exports.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportCSV downloads the matching transactions as CSV
// @Summary     Export transactions as CSV
// @Description Download the transactions matching a search as a CSV file
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       q      query string false "Free-text query"
// @Param       window query string false "Time window: all (default), week, month, or year"
// @Success     200 {string} string "CSV file"
// @Failure     400 {object} ErrorResponse "Invalid window"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/transactions.csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	window, err := parseTimeWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.reportService.TransactionsCSV(userID, c.Query("q"), window)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF downloads the matching transactions as PDF
// @Summary     Export transactions as PDF
// @Description Download the transactions matching a search as a PDF file
// @Tags        reports
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       q      query string false "Free-text query"
// @Param       window query string false "Time window: all (default), week, month, or year"
// @Success     200 {string} string "PDF file"
// @Failure     400 {object} ErrorResponse "Invalid window"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/transactions.pdf [get]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	window, err := parseTimeWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.reportService.TransactionsPDF(userID, c.Query("q"), window)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
