package skills

import (
	"io"
	"net/http"

	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/request"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 20 << 20

type PatchSkillDTO struct {
	Enabled *bool   `json:"enabled"`
	Path    *string `json:"path"`
	Content *string `json:"content"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tenantMW gin.HandlerFunc) {
	g := rg.Group("/skills", tenantMW)
	g.GET("", h.list)
	g.POST("/import", h.importArchive)
	g.GET("/:skillKey", h.detail)
	g.PATCH("/:skillKey", h.patch)
	g.GET("/:skillKey/preview", h.preview)
}

// GET /skills
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"skills": items})
}

// POST /skills/import (multipart "file")
func (h *Handler) importArchive(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperr.Validation("file is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, apperr.ErrInvalidArchive)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, apperr.ErrInvalidArchive)
		return
	}

	out, err := h.svc.Import(c.Request.Context(), fh.Filename, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// GET /skills/:skillKey
func (h *Handler) detail(c *gin.Context) {
	d, err := h.svc.Detail(c.Request.Context(), c.Param("skillKey"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, d)
}

// PATCH /skills/:skillKey
func (h *Handler) patch(c *gin.Context) {
	var dto PatchSkillDTO
	if err := request.BindJSON(c, &dto); err != nil {
		response.Error(c, err)
		return
	}
	d, err := h.svc.Patch(c.Request.Context(), c.Param("skillKey"), dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, d)
}

// GET /skills/:skillKey/preview?path=
func (h *Handler) preview(c *gin.Context) {
	html, err := h.svc.Preview(c.Request.Context(), c.Param("skillKey"), c.Query("path"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
