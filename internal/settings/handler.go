package settings

import (
	"net/http"

	"gymdesk/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Current settings
// @Tags         settings
// @Produce      json
// @Success      200 {object} settings.Document
// @Router       /settings [get]
func (h *Handler) Get(c *gin.Context) {
	doc, err := h.service.Load(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// @Summary      Replace settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settings.Document true "Settings document"
// @Success      200 {object} settings.Document
// @Failure      400 {object} api.ErrorResponse
// @Router       /settings [put]
func (h *Handler) Update(c *gin.Context) {
	var doc Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.Save(c.Request.Context(), doc); err != nil {
		api.Fail(c, err, "Failed to save settings")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// @Summary      Back up the database now
// @Tags         settings
// @Produce      json
// @Success      201 {object} settings.File
// @Router       /settings/backup [post]
func (h *Handler) CreateBackup(c *gin.Context) {
	file, err := h.service.CreateBackup(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to create backup")
		return
	}
	c.JSON(http.StatusCreated, file)
}

// @Summary      List backups
// @Tags         settings
// @Produce      json
// @Success      200 {array} settings.File
// @Router       /settings/backups [get]
func (h *Handler) ListBackups(c *gin.Context) {
	files, err := h.service.ListBackups(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to list backups")
		return
	}
	c.JSON(http.StatusOK, files)
}

// @Summary      Restore a backup by name
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settings.RestoreRequest true "Backup name"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /settings/restore [post]
func (h *Handler) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	files, err := h.service.ListBackups(c.Request.Context())
	if err != nil {
		api.Fail(c, err, "Failed to list backups")
		return
	}

	// Only files in the backup directory can be restored over HTTP.
	for _, f := range files {
		if f.Name != req.Name {
			continue
		}
		if err := h.service.RestoreBackup(c.Request.Context(), f.Path); err != nil {
			api.Fail(c, err, "Failed to restore backup")
			return
		}
		c.JSON(http.StatusOK, api.MessageResponse{Message: "Respaldo restaurado correctamente"})
		return
	}

	c.JSON(http.StatusNotFound, api.ErrorResponse{Error: ErrBackupNotFound.Error(), Field: "nombre"})
}

// @Summary      Compact the database
// @Tags         settings
// @Produce      json
// @Success      200 {object} api.MessageResponse
// @Router       /settings/optimize [post]
func (h *Handler) Optimize(c *gin.Context) {
	if err := h.service.Optimize(c.Request.Context()); err != nil {
		api.Fail(c, err, "Failed to optimize database")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Base de datos optimizada"})
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.PUT("", h.Update)
	rg.POST("/backup", h.CreateBackup)
	rg.GET("/backups", h.ListBackups)
	rg.POST("/restore", h.Restore)
	rg.POST("/optimize", h.Optimize)
}
