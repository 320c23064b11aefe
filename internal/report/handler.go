package report

import (
	"net/http"
	"strconv"

	"gymdesk/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Dashboard figures
// @Tags         reports
// @Produce      json
// @Success      200 {object} report.General
// @Failure      500 {object} api.ErrorResponse
// @Router       /reports/general [get]
func (h *Handler) General(c *gin.Context) {
	general, err := h.service.General(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, general)
}

// @Summary      Income per month
// @Tags         reports
// @Produce      json
// @Param        year query int false "Year, defaults to the current one"
// @Success      200 {array} payment.MonthlyIncome
// @Failure      400 {object} api.ErrorResponse
// @Router       /reports/income [get]
func (h *Handler) Income(c *gin.Context) {
	var year int
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid year", Field: "year"})
			return
		}
		year = parsed
	}

	income, err := h.service.IncomeByMonth(c.Request.Context(), year)
	if err != nil {
		api.Fail(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, income)
}

// @Summary      Active versus overdue clients
// @Tags         reports
// @Produce      json
// @Success      200 {array} report.StatusCount
// @Router       /reports/client-status [get]
func (h *Handler) ClientStatus(c *gin.Context) {
	status, err := h.service.ClientStatus(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, status)
}

// @Summary      Access statistics
// @Tags         reports
// @Produce      json
// @Success      200 {object} access.Stats
// @Router       /reports/accesses [get]
func (h *Handler) Accesses(c *gin.Context) {
	stats, err := h.service.AccessStats(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Clients with an expired membership
// @Tags         reports
// @Produce      json
// @Success      200 {array} payment.OverdueClient
// @Router       /reports/overdue [get]
func (h *Handler) Overdue(c *gin.Context) {
	overdue, err := h.service.OverdueClients(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, overdue)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/general", h.General)
	rg.GET("/income", h.Income)
	rg.GET("/client-status", h.ClientStatus)
	rg.GET("/accesses", h.Accesses)
	rg.GET("/overdue", h.Overdue)
}
