package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/e2ecommerce/server/internal/shared/response"
	"github.com/e2ecommerce/server/internal/utils/middleware"
)

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Handler exposes the cart endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cart := r.Group("/cart")
	{
		cart.GET("", h.Get)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:productID", h.UpdateQuantity)
		cart.DELETE("/items/:productID", h.RemoveItem)
		cart.DELETE("", h.Clear)
	}
}

// Get handles GET /cart.
func (h *Handler) Get(c *gin.Context) {
	priced, err := h.service.Get(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, priced)
}

// AddItem handles POST /cart/items.
func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	priced, err := h.service.AddItem(c.Request.Context(), middleware.CurrentActor(c), req.ProductID, req.Quantity)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, priced)
}

// UpdateQuantity handles PUT /cart/items/:productID.
func (h *Handler) UpdateQuantity(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	priced, err := h.service.UpdateQuantity(c.Request.Context(), middleware.CurrentActor(c), productID, req.Quantity)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, priced)
}

// RemoveItem handles DELETE /cart/items/:productID.
func (h *Handler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	priced, err := h.service.RemoveItem(c.Request.Context(), middleware.CurrentActor(c), productID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, priced)
}

// Clear handles DELETE /cart.
func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), middleware.CurrentActor(c)); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
