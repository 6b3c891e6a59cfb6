package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// AnalyticsHandler handles transaction search and dashboard requests.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// parseTimeWindow validates the window query parameter, defaulting to "all".
func parseTimeWindow(c *gin.Context) (services.TimeWindow, error) {
	v := c.DefaultQuery("window", string(services.TimeWindowAll))
	window := services.TimeWindow(v)
	switch window {
	case services.TimeWindowAll, services.TimeWindowWeek, services.TimeWindowMonth, services.TimeWindowYear:
		return window, nil
	default:
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid window, must be all, week, month, or year")
	}
}

// SearchTransactions handles free-text transaction search
// @Summary     Search transactions
// @Description Search the user's transactions by category, note, or amount within a time window
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       q      query string false "Free-text query; matches category, note, or a decimal amount like 12.50"
// @Param       window query string false "Time window: all (default), week, month, or year"
// @Success     200 {array} TransactionResponse "Matching transactions"
// @Failure     400 {object} ErrorResponse "Invalid window"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/search [get]
func (h *AnalyticsHandler) SearchTransactions(c *gin.Context) {
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

	txns, err := h.analyticsService.Search(userID, c.Query("q"), window)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

// GetDashboard handles the dashboard summary request
// @Summary     Get dashboard
// @Description Get the month's totals, the daily/weekly/monthly chart series, and budget progress
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardSummary "Dashboard summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.analyticsService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
