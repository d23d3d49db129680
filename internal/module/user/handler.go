package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/e2ecommerce/server/internal/shared/response"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	u, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(u))
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	u, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(c, "invalid email or password")
		case errors.Is(err, ErrUserInactive):
			response.Forbidden(c, "account is deactivated")
		default:
			response.FromError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(u)})
}
