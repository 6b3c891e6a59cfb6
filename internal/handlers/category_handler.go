package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/categories"
)

// CategoryHandler serves the static category taxonomy.
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryResponse represents a category in the response
type CategoryResponse struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// GetCategories returns the category taxonomy
// @Summary     Get categories
// @Description Get the expense and income category names with their icons
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]CategoryResponse "Categories grouped by side"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	expense := make([]CategoryResponse, 0)
	for _, name := range categories.Expense() {
		expense = append(expense, CategoryResponse{Name: name, Icon: categories.Icon(name)})
	}
	income := make([]CategoryResponse, 0)
	for _, name := range categories.Income() {
		income = append(income, CategoryResponse{Name: name, Icon: categories.Icon(name)})
	}

	c.JSON(http.StatusOK, gin.H{
		"expense": expense,
		"income":  income,
	})
}
