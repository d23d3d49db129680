package logistics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/e2ecommerce/server/internal/shared/response"
	"github.com/e2ecommerce/server/internal/utils/middleware"
)

type UpdateStatusRequest struct {
	Status  Status `json:"status" binding:"required"`
	Reason  string `json:"reason"`
	Carrier string `json:"carrier"`
}

type CorrectRequest struct {
	Status Status `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type FreightRequest struct {
	Subtotal int64 `json:"subtotal" binding:"required"`
}

// Handler exposes the logistics endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires tracking reads for clients and mutations for
// operators.
func (h *Handler) RegisterRoutes(authed, ops *gin.RouterGroup) {
	authed.GET("/logistics/order/:orderID", h.GetByOrder)
	authed.POST("/logistics/freight", h.QuoteFreight)

	ops.PUT("/logistics/:id/status", h.UpdateStatus)
	ops.PUT("/logistics/:id/correct", h.Correct)
}

// GetByOrder handles GET /logistics/order/:orderID.
func (h *Handler) GetByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderID"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	actor := middleware.CurrentActor(c)
	rec, err := h.service.GetByOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"record":   rec,
		"progress": rec.Progress(),
	})
}

// UpdateStatus handles PUT /logistics/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid record id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	rec, err := h.service.UpdateStatus(c.Request.Context(), middleware.CurrentActor(c), id, req.Status, req.Reason, req.Carrier)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Correct handles PUT /logistics/:id/correct.
func (h *Handler) Correct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid record id")
		return
	}

	var req CorrectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	rec, err := h.service.Correct(c.Request.Context(), middleware.CurrentActor(c), id, req.Status, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// QuoteFreight handles POST /logistics/freight.
func (h *Handler) QuoteFreight(c *gin.Context) {
	var req FreightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	fee, err := h.service.QuoteFreight(req.Subtotal)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subtotal": req.Subtotal,
		"freight":  fee,
		"total":    req.Subtotal + fee,
	})
}
