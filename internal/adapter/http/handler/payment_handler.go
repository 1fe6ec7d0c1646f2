package handler

import (
	"elearning-payments/internal/adapter/http/dto"
	"elearning-payments/internal/adapter/http/middleware"
	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"
	"elearning-payments/pkg/apperror"
	"elearning-payments/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles checkout, gateway callback and history endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// Checkout handles POST /api/v1/payments/checkout.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	courseIDs := make([]uuid.UUID, 0, len(req.CourseIDs))
	for _, raw := range req.CourseIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Validation("invalid course id: "+raw))
			return
		}
		courseIDs = append(courseIDs, id)
	}

	result, err := h.paymentSvc.Checkout(c.Request.Context(), ports.CheckoutRequest{
		StudentID: studentID,
		CourseIDs: courseIDs,
		ClientIP:  c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.CheckoutResponse{
		TransactionCode: result.TransactionCode,
		Amount:          result.Amount,
		PaymentURL:      result.PaymentURL,
	})
}

// VNPayIPN handles GET /api/v1/payments/vnpay-ipn. The gateway calls this
// server to server; the body is the bare {RspCode, Message} the gateway
// expects, never the standard envelope.
func (h *PaymentHandler) VNPayIPN(c *gin.Context) {
	query := c.Request.URL.Query()
	params := make(map[string]string, len(query))
	for key := range query {
		params[key] = query.Get(key)
	}

	ack := h.paymentSvc.HandleIPN(c.Request.Context(), params)
	if ack == ports.IPNAckOK {
		response.Ack(c, ack, "Confirm Success")
		return
	}
	response.Ack(c, ack, "Confirm Fail")
}

// History handles GET /api/v1/payments/history.
func (h *PaymentHandler) History(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	txns, err := h.paymentSvc.History(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}
	response.OK(c, items)
}

// currentUserID extracts the authenticated user's id set by JWTAuth.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:        tx.ID.String(),
		Code:      tx.Code,
		Amount:    tx.Amount,
		Status:    string(tx.Status),
		CreatedAt: tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if tx.ProcessedAt != nil {
		s := tx.ProcessedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ProcessedAt = &s
	}
	return resp
}
