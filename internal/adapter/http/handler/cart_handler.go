package handler

import (
	"elearning-payments/internal/adapter/http/dto"
	"elearning-payments/internal/core/ports"
	"elearning-payments/pkg/apperror"
	"elearning-payments/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles shopping cart endpoints.
type CartHandler struct {
	cartSvc ports.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartSvc ports.CartService) *CartHandler {
	return &CartHandler{cartSvc: cartSvc}
}

// AddToCart handles POST /api/v1/cart.
func (h *CartHandler) AddToCart(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid course id"))
		return
	}

	if err := h.cartSvc.AddToCart(c.Request.Context(), studentID, courseID); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"course_id": courseID.String()})
}

// GetCart handles GET /api/v1/cart.
func (h *CartHandler) GetCart(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	cart, err := h.cartSvc.GetCart(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cart)
}

// RemoveFromCart handles DELETE /api/v1/cart/:course_id.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid course id"))
		return
	}

	if err := h.cartSvc.RemoveFromCart(c.Request.Context(), studentID, courseID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"course_id": courseID.String()})
}

// CountItems handles GET /api/v1/cart/count.
func (h *CartHandler) CountItems(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	count, err := h.cartSvc.CountItems(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}
