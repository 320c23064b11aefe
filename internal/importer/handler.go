package importer

import (
	"io"
	"net/http"
	"strings"

	"gymdesk/internal/api"

	"github.com/gin-gonic/gin"
)

// maxUpload bounds the size of an uploaded CSV file.
const maxUpload = 10 << 20

type Handler struct {
	importer *Importer
}

func NewHandler(importer *Importer) *Handler {
	return &Handler{importer: importer}
}

// @Summary      Bulk import clients from CSV
// @Description  Accepts a multipart "archivo" field or a text/csv body
// @Tags         clients
// @Accept       multipart/form-data
// @Produce      json
// @Success      200 {object} importer.Result
// @Failure      400 {object} api.ErrorResponse
// @Router       /clients/import [post]
func (h *Handler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload)

	var src io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("archivo")
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Seleccione un archivo", Field: "archivo"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			api.Fail(c, err, "Failed to read upload")
			return
		}
		defer f.Close()
		src = f
	}

	result, err := h.importer.Import(c.Request.Context(), src)
	if err != nil {
		api.Fail(c, err, "Failed to import clients")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
}
