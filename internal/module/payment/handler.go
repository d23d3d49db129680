package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/e2ecommerce/server/internal/shared/response"
	"github.com/e2ecommerce/server/internal/utils/middleware"
)

// Handler exposes the payment endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires client payment routes and the operator PIX
// confirmation route.
func (h *Handler) RegisterRoutes(authed, ops *gin.RouterGroup) {
	payments := authed.Group("/payments")
	{
		payments.POST("/quote", h.Quote)
		payments.POST("/credit-card", h.PayCreditCard)
		payments.POST("/debit-card", h.PayDebitCard)
		payments.POST("/pix", h.CreatePix)
		payments.GET("/pix/:txid/status", h.PixStatus)
		payments.POST("/:id/retry", h.Retry)
		payments.GET("/order/:orderID", h.ListByOrder)
	}

	ops.POST("/payments/pix/:txid/confirm", h.ConfirmPix)
}

// Quote handles POST /payments/quote.
func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	plan, err := h.service.Quote(req.Amount, req.Installments)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// PayCreditCard handles POST /payments/credit-card.
func (h *Handler) PayCreditCard(c *gin.Context) {
	h.payCard(c, MethodCreditCard)
}

// PayDebitCard handles POST /payments/debit-card.
func (h *Handler) PayDebitCard(c *gin.Context) {
	h.payCard(c, MethodDebitCard)
}

func (h *Handler) payCard(c *gin.Context, method Method) {
	var req CardPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.PayCard(c.Request.Context(), middleware.CurrentActor(c), req.OrderID, method, req.input())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// CreatePix handles POST /payments/pix.
func (h *Handler) CreatePix(c *gin.Context) {
	var req PixPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.CreatePix(c.Request.Context(), middleware.CurrentActor(c), req.OrderID, PixInput{
		PayerCPF:  req.PayerCPF,
		PayerCNPJ: req.PayerCNPJ,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PixStatus handles GET /payments/pix/:txid/status.
func (h *Handler) PixStatus(c *gin.Context) {
	p, err := h.service.GetPixStatus(c.Request.Context(), c.Param("txid"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"txid":   p.Pix.TxID,
		"status": p.Status,
	})
}

// ConfirmPix handles POST /payments/pix/:txid/confirm.
func (h *Handler) ConfirmPix(c *gin.Context) {
	p, err := h.service.ConfirmPix(c.Request.Context(), c.Param("txid"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Retry handles POST /payments/:id/retry.
func (h *Handler) Retry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	var req RetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	var card *CardInput
	if req.Number != "" {
		card = &CardInput{
			HolderName:   req.HolderName,
			Number:       req.Number,
			ExpiryMonth:  req.ExpiryMonth,
			ExpiryYear:   req.ExpiryYear,
			CVV:          req.CVV,
			Installments: req.Installments,
		}
	}

	p, err := h.service.Retry(c.Request.Context(), middleware.CurrentActor(c), id, card)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListByOrder handles GET /payments/order/:orderID.
func (h *Handler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderID"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	payments, err := h.service.ListByOrder(c.Request.Context(), middleware.CurrentActor(c), orderID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
