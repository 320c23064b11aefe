package access

import (
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/api"
	"gymdesk/internal/db"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	loc     *time.Location
}

// NewHandler parses date query parameters in loc.
func NewHandler(service Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{service: service, loc: loc}
}

// @Summary      Register an entry or exit
// @Description  Granted only while the client holds a valid membership
// @Tags         accesses
// @Accept       json
// @Produce      json
// @Param        request body access.RegisterRequest true "Access payload"
// @Success      201 {object} access.Decision
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} access.Decision
// @Failure      404 {object} access.Decision
// @Failure      429 {object} api.ErrorResponse
// @Router       /accesses [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	movement, err := ParseMovement(req.Movement)
	if err != nil {
		api.Fail(c, err, "Failed to register access")
		return
	}

	decision, err := h.service.Register(c.Request.Context(), req.Cedula, movement)
	if err != nil {
		api.Fail(c, err, "Failed to register access")
		return
	}

	switch decision.State {
	case StateValid:
		c.JSON(http.StatusCreated, decision)
	case StateNoClient:
		c.JSON(http.StatusNotFound, decision)
	default:
		c.JSON(http.StatusForbidden, decision)
	}
}

// @Summary      Latest accesses
// @Tags         accesses
// @Produce      json
// @Param        limit query int false "Maximum rows, default 20"
// @Success      200 {array} access.RecentEntry
// @Failure      400 {object} api.ErrorResponse
// @Router       /accesses/recent [get]
func (h *Handler) Recent(c *gin.Context) {
	limit := DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid limit", Field: "limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		api.Fail(c, err, "Failed to fetch accesses")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary      Accesses between two dates
// @Tags         accesses
// @Produce      json
// @Param        from query string true  "First day, YYYY-MM-DD"
// @Param        to   query string false "Last day, YYYY-MM-DD"
// @Success      200 {array} access.RecentEntry
// @Failure      400 {object} api.ErrorResponse
// @Router       /accesses [get]
func (h *Handler) ByDate(c *gin.Context) {
	from, err := time.ParseInLocation(db.DateLayout, c.Query("from"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date", Field: "from"})
		return
	}

	var to time.Time
	if raw := c.Query("to"); raw != "" {
		to, err = time.ParseInLocation(db.DateLayout, raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date", Field: "to"})
			return
		}
	}

	entries, err := h.service.ByDate(c.Request.Context(), from, to)
	if err != nil {
		api.Fail(c, err, "Failed to fetch accesses")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary      Last movement of a client
// @Tags         accesses
// @Produce      json
// @Param        cedula path string true "Client cedula"
// @Success      200 {object} access.Entry
// @Failure      404 {object} api.ErrorResponse
// @Router       /accesses/clients/{cedula}/last [get]
func (h *Handler) LastFor(c *gin.Context) {
	entry, err := h.service.LastFor(c.Request.Context(), c.Param("cedula"))
	if err != nil {
		api.Fail(c, err, "Failed to fetch access")
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Sin accesos registrados"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// @Summary      Access statistics
// @Tags         accesses
// @Produce      json
// @Success      200 {object} access.Stats
// @Router       /accesses/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to compute access statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RegisterRoutes mounts the read endpoints. The kiosk POST is mounted by the
// server behind its own rate limiter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ByDate)
	rg.GET("/recent", h.Recent)
	rg.GET("/stats", h.Stats)
	rg.GET("/clients/:cedula/last", h.LastFor)
}
