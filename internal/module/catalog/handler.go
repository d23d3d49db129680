package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/e2ecommerce/server/internal/module/user"
	"github.com/e2ecommerce/server/internal/shared/response"
	"github.com/e2ecommerce/server/internal/utils/middleware"
)

// Handler exposes the catalog endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires public browsing and supplier management routes.
func (h *Handler) RegisterRoutes(public, managed *gin.RouterGroup) {
	public.GET("/products", h.List)
	public.GET("/products/:id", h.Get)

	managed.POST("/products", h.Create)
	managed.PUT("/products/:id", h.Update)
	managed.POST("/products/:id/stock", h.AdjustStock)
	managed.DELETE("/products/:id", h.Deactivate)
}

// List handles GET /products.
func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		ActiveOnly: true,
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if supplierID := c.Query("supplier_id"); supplierID != "" {
		id, err := uuid.Parse(supplierID)
		if err != nil {
			response.BadRequest(c, "invalid supplier id")
			return
		}
		filter.SupplierID = id
		// A supplier browsing their own catalog sees inactive products too.
		actor := middleware.CurrentActor(c)
		if actor.ID == id || actor.Is(user.RoleAdmin, user.RoleOperator) {
			filter.ActiveOnly = false
		}
	}

	products, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	filter.normalize()
	c.JSON(http.StatusOK, ListResponse{
		Products: products,
		Total:    total,
		Page:     filter.Page,
		PerPage:  filter.PerPage,
	})
}

// Get handles GET /products/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create handles POST /products.
func (h *Handler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), CreateInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Stock:       req.Stock,
		MaxStock:    req.MaxStock,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update handles PUT /products/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), id, UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		MaxStock:    req.MaxStock,
		Active:      req.Active,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// AdjustStock handles POST /products/:id/stock.
func (h *Handler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.AdjustStock(c.Request.Context(), middleware.CurrentActor(c), id, req.Delta)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Deactivate handles DELETE /products/:id.
func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	p, err := h.service.Deactivate(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
