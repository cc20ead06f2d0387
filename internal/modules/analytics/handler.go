package analytics

import (
	"github.com/gin-gonic/gin"
	"github.com/pulsecrm/core/internal/middleware"
	"github.com/pulsecrm/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/analytics", authMW)
	g.GET("/summary", h.summary)
}

// GET /analytics/summary
func (h *Handler) summary(c *gin.Context) {
	summary, err := h.svc.Summarize(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, summary)
}
