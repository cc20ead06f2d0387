package opportunity

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/pulsecrm/core/internal/middleware"
	"github.com/pulsecrm/core/internal/pkg/pagination"
	"github.com/pulsecrm/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/opportunities", authMW)
	g.GET("", h.list)
	g.POST("", h.create)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// GET /opportunities?search=&page=&limit=
func (h *Handler) list(c *gin.Context) {
	rows, pag, err := h.svc.List(middleware.CurrentUserID(c), c.Query("search"), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, pag)
}

// POST /opportunities
func (h *Handler) create(c *gin.Context) {
	var dto CreateOpportunityDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rec, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		respondMutationError(c, err)
		return
	}
	response.Created(c, rec)
}

// PATCH /opportunities/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdateOpportunityDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rec, err := h.svc.Update(middleware.CurrentUserID(c), c.Param("id"), &dto)
	if err != nil {
		respondMutationError(c, err)
		return
	}
	response.OK(c, rec)
}

// DELETE /opportunities/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(middleware.CurrentUserID(c), c.Param("id")); err != nil {
		respondMutationError(c, err)
		return
	}
	response.OK(c, gin.H{"msg": "Opportunity removed successfully"})
}

func respondMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNotFound):
		response.NotFoundMsg(c, "Opportunity not found")
	case errors.Is(err, errCustomerNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, errNotOwner):
		response.Unauthorized(c)
	case errors.Is(err, errInvalidStage):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
