package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// ChartHandler serves chart-ready series shaped from the report data
type ChartHandler struct {
	chartService services.ChartServicer
}

// NewChartHandler creates a new ChartHandler
func NewChartHandler(chartService services.ChartServicer) *ChartHandler {
	return &ChartHandler{chartService: chartService}
}

// chartQuery carries the optional theme selection for chart endpoints.
type chartQuery struct {
	Theme string `form:"theme,default=light" binding:"chart_theme"`
}

func parseThemeQuery(c *gin.Context) (services.Theme, error) {
	var q chartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return "", apperrors.WithMessage(apperrors.ErrValidation, "theme must be light or dark")
	}
	return services.Theme(q.Theme), nil
}

// Performance returns the month's running-balance line chart.
func (h *ChartHandler) Performance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month, err := parseMonthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	theme, err := parseThemeQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	chart, err := h.chartService.PerformanceChart(userID, year, month, theme)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chart": chart})
}

// Movement returns the month's paired income and expense line charts.
func (h *ChartHandler) Movement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month, err := parseMonthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	theme, err := parseThemeQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	chart, err := h.chartService.MovementChart(userID, year, month, theme)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chart": chart})
}

// Categories returns the month's income and expense pie charts.
func (h *ChartHandler) Categories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month, err := parseMonthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	theme, err := parseThemeQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	charts, err := h.chartService.CategoryCharts(userID, year, month, theme)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"charts": charts})
}
