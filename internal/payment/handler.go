package payment

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

// @Summary      Register a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body payment.RegisterRequest true "Payment payload"
// @Success      201 {object} payment.Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /payments [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.Register(c.Request.Context(), req.Cedula, req.Amount, req.DurationMonths, req.Method)
	if err != nil {
		api.Fail(c, err, "Failed to register payment")
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      Register a payment for a pricing plan
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body payment.RegisterPlanRequest true "Plan payload"
// @Success      201 {object} payment.Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /payments/plan [post]
func (h *Handler) RegisterPlan(c *gin.Context) {
	var req RegisterPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.RegisterPlan(c.Request.Context(), req.Cedula, req.Plan, req.Method)
	if err != nil {
		api.Fail(c, err, "Failed to register payment")
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      List all payments
// @Tags         payments
// @Produce      json
// @Success      200 {array} payment.Payment
// @Router       /payments [get]
func (h *Handler) List(c *gin.Context) {
	payments, err := h.service.All(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to fetch payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// @Summary      Payment history of a client
// @Tags         payments
// @Produce      json
// @Param        cedula path string true "Client cedula"
// @Success      200 {array} payment.Payment
// @Router       /payments/clients/{cedula} [get]
func (h *Handler) History(c *gin.Context) {
	payments, err := h.service.History(c.Request.Context(), c.Param("cedula"))
	if err != nil {
		api.Fail(c, err, "Failed to fetch payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// @Summary      Active payment of a client
// @Tags         payments
// @Produce      json
// @Param        cedula path string true "Client cedula"
// @Success      200 {object} payment.Payment
// @Failure      404 {object} api.ErrorResponse
// @Router       /payments/clients/{cedula}/active [get]
func (h *Handler) Active(c *gin.Context) {
	p, err := h.service.Active(c.Request.Context(), c.Param("cedula"))
	if err != nil {
		api.Fail(c, err, "Failed to fetch payment")
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Sin pago activo"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Clients with an expired membership
// @Tags         payments
// @Produce      json
// @Success      200 {array} payment.OverdueClient
// @Router       /payments/overdue [get]
func (h *Handler) Overdue(c *gin.Context) {
	overdue, err := h.service.Overdue(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to fetch overdue clients")
		return
	}
	c.JSON(http.StatusOK, overdue)
}

// @Summary      Income grouped by month
// @Tags         payments
// @Produce      json
// @Param        year query int false "Year, defaults to the current one"
// @Success      200 {array} payment.MonthlyIncome
// @Failure      400 {object} api.ErrorResponse
// @Router       /payments/income [get]
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
		api.Fail(c, err, "Failed to fetch income")
		return
	}
	c.JSON(http.StatusOK, income)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Register)
	rg.GET("", h.List)
	rg.POST("/plan", h.RegisterPlan)
	rg.GET("/overdue", h.Overdue)
	rg.GET("/income", h.Income)
	rg.GET("/clients/:cedula", h.History)
	rg.GET("/clients/:cedula/active", h.Active)
}
