package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// InsightHandler handles AI insight requests.
type InsightHandler struct {
	insightService services.InsightServicer
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService services.InsightServicer) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// GetInsight returns spending advice for the current month
// @Summary     Get spending insight
// @Description Get AI-generated advice for the current month; the cached answer serves until spending moves materially
// @Tags        insights
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.InsightResult "Insight text"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Generation failed"
// @Failure     503 {object} ErrorResponse "Insight generation not configured"
// @Router      /insights [get]
func (h *InsightHandler) GetInsight(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insight, err := h.insightService.GetInsight(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, insight)
}
