package client

import (
	"net/http"
	"strconv"

	"gymdesk/internal/api"

	"github.com/gin-gonic/gin"
)

const defaultExpiringDays = 7

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Register a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body client.RegisterRequest true "Client payload"
// @Success      201 {object} client.Client
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	client, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err, "Failed to register client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// @Summary      Search clients
// @Description  Substring filters are combined with AND; estado is all, active or overdue
// @Tags         clients
// @Produce      json
// @Param        cedula   query string false "Cedula contains"
// @Param        nombre   query string false "Name contains"
// @Param        apellido query string false "Surname contains"
// @Param        telefono query string false "Phone contains"
// @Param        estado   query string false "Status filter"
// @Success      200 {array} client.SearchResult
// @Failure      400 {object} api.ErrorResponse
// @Router       /clients [get]
func (h *Handler) Search(c *gin.Context) {
	var criteria Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	filter, ok := ParseStatusFilter(c.Query("estado"))
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid status filter", Field: "estado"})
		return
	}

	results, err := h.service.Search(c.Request.Context(), criteria, filter)
	if err != nil {
		api.Fail(c, err, "Failed to search clients")
		return
	}

	c.JSON(http.StatusOK, results)
}

// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        cedula path string true "Client cedula"
// @Success      200 {object} client.Client
// @Failure      404 {object} api.ErrorResponse
// @Router       /clients/{cedula} [get]
func (h *Handler) Get(c *gin.Context) {
	client, err := h.service.Get(c.Request.Context(), c.Param("cedula"))
	if err != nil {
		api.Fail(c, err, "Failed to fetch client")
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Cliente no encontrado"})
		return
	}

	c.JSON(http.StatusOK, client)
}

// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        cedula  path string true "Client cedula"
// @Param        request body client.UpdateRequest true "Client payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /clients/{cedula} [put]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), Client{
		Cedula:         c.Param("cedula"),
		Name:           req.Name,
		Surname:        req.Surname,
		Phone:          req.Phone,
		EmergencyPhone: req.EmergencyPhone,
		Address:        req.Address,
		Email:          req.Email,
		PhotoPath:      req.PhotoPath,
	})
	if err != nil {
		api.Fail(c, err, "Failed to update client")
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Cliente no encontrado"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Cliente actualizado"})
}

// @Summary      Delete a client with its payments and accesses
// @Tags         clients
// @Produce      json
// @Param        cedula path string true "Client cedula"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /clients/{cedula} [delete]
func (h *Handler) Delete(c *gin.Context) {
	deleted, err := h.service.Delete(c.Request.Context(), c.Param("cedula"))
	if err != nil {
		api.Fail(c, err, "Failed to delete client")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Cliente no encontrado"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Cliente eliminado"})
}

// @Summary      Active and overdue client counts
// @Tags         clients
// @Produce      json
// @Success      200 {object} client.StatusSummary
// @Router       /clients/summary [get]
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.StatusSummary(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to summarize clients")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary      Memberships expiring soon
// @Tags         clients
// @Produce      json
// @Param        days query int false "Window in days, default 7"
// @Success      200 {array} payment.ExpiringClient
// @Failure      400 {object} api.ErrorResponse
// @Router       /clients/expiring [get]
func (h *Handler) Expiring(c *gin.Context) {
	days := defaultExpiringDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid days", Field: "days"})
			return
		}
		days = parsed
	}

	expiring, err := h.service.ExpiringSoon(c.Request.Context(), days)
	if err != nil {
		api.Fail(c, err, "Failed to fetch expiring memberships")
		return
	}
	c.JSON(http.StatusOK, expiring)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Register)
	rg.GET("", h.Search)
	rg.GET("/summary", h.Summary)
	rg.GET("/expiring", h.Expiring)
	rg.GET("/:cedula", h.Get)
	rg.PUT("/:cedula", h.Update)
	rg.DELETE("/:cedula", h.Delete)
}
