package audit

import (
	"github.com/gin-gonic/gin"
	"github.com/pulsecrm/core/internal/models"
	"github.com/pulsecrm/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/activities", authMW)
	g.GET("/:kind/:id", h.listFor)
}

// GET /activities/:kind/:id
func (h *Handler) listFor(c *gin.Context) {
	kind, err := models.ParseSubjectKind(c.Param("kind"))
	if err != nil {
		response.BadRequest(c, "Invalid model type provided.")
		return
	}
	subject := models.Subject(kind, c.Param("id"))
	if err := subject.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	views, err := h.svc.ListFor(subject)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, views)
}
