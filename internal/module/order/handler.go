package order

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/e2ecommerce/server/internal/shared/response"
	"github.com/e2ecommerce/server/internal/utils/middleware"
)

// Handler exposes the order endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires client routes and the operator status route.
func (h *Handler) RegisterRoutes(authed, ops *gin.RouterGroup) {
	orders := authed.Group("/orders")
	{
		orders.POST("", h.Checkout)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/return", h.RequestReturn)
	}

	ops.PUT("/orders/:id/status", h.UpdateStatus)
}

// Checkout handles POST /orders.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	in := CheckoutInput{AddressID: req.AddressID}
	for _, item := range req.Items {
		in.Items = append(in.Items, CheckoutItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	o, err := h.service.Checkout(c.Request.Context(), middleware.CurrentActor(c), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// List handles GET /orders.
func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{Status: Status(c.Query("status"))}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	orders, total, err := h.service.List(c.Request.Context(), middleware.CurrentActor(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	filter.normalize()
	c.JSON(http.StatusOK, ListResponse{
		Orders:  orders,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
}

// Get handles GET /orders/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	o, err := h.service.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// Cancel handles POST /orders/:id/cancel.
func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	o, err := h.service.Cancel(c.Request.Context(), middleware.CurrentActor(c), id, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// RequestReturn handles POST /orders/:id/return.
func (h *Handler) RequestReturn(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	o, err := h.service.RequestReturn(c.Request.Context(), middleware.CurrentActor(c), id, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// UpdateStatus handles PUT /orders/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	o, err := h.service.UpdateStatus(c.Request.Context(), middleware.CurrentActor(c), id, req.Status, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
