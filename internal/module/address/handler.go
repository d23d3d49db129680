package address

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/e2ecommerce/server/internal/shared/response"
	"github.com/e2ecommerce/server/internal/utils/middleware"
)

type addressRequest struct {
	Type       Type   `json:"type"`
	Street     string `json:"street" binding:"required"`
	Number     string `json:"number" binding:"required"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	CEP        string `json:"cep" binding:"required"`
	IsDefault  bool   `json:"is_default"`
}

func (r addressRequest) input() Input {
	return Input{
		Type:       r.Type,
		Street:     r.Street,
		Number:     r.Number,
		Complement: r.Complement,
		District:   r.District,
		City:       r.City,
		State:      r.State,
		CEP:        r.CEP,
		IsDefault:  r.IsDefault,
	}
}

// Handler exposes the address book endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	addrs := r.Group("/addresses")
	{
		addrs.POST("", h.Create)
		addrs.GET("", h.List)
		addrs.GET("/:id", h.Get)
		addrs.PUT("/:id", h.Update)
		addrs.PUT("/:id/default", h.SetDefault)
		addrs.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	a, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), req.input())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c *gin.Context) {
	addrs, err := h.service.List(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addrs})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid address id")
		return
	}

	a, err := h.service.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid address id")
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	a, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), id, req.input())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) SetDefault(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid address id")
		return
	}

	if err := h.service.SetDefault(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid address id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
