package handler

import (
	"elearning-payments/internal/adapter/http/dto"
	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"
	"elearning-payments/pkg/apperror"
	"elearning-payments/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PayoutHandler handles teacher payout administration endpoints.
type PayoutHandler struct {
	payoutSvc ports.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payoutSvc ports.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutSvc: payoutSvc}
}

// ListSummaries handles GET /api/v1/admin/payouts.
func (h *PayoutHandler) ListSummaries(c *gin.Context) {
	summaries, err := h.payoutSvc.GetPayoutSummaries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summaries)
}

// PayoutToTeacher handles POST /api/v1/admin/payouts/:teacher_id.
func (h *PayoutHandler) PayoutToTeacher(c *gin.Context) {
	teacherID, err := uuid.Parse(c.Param("teacher_id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid teacher id"))
		return
	}

	settled, err := h.payoutSvc.PayoutToTeacher(c.Request.Context(), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.PayoutResultResponse{
		TeacherID:      teacherID.String(),
		PayoutsSettled: settled,
	})
}

// ListByTeacher handles GET /api/v1/admin/payouts/:teacher_id.
// An optional ?status=UNPAID|PAID query narrows the listing.
func (h *PayoutHandler) ListByTeacher(c *gin.Context) {
	teacherID, err := uuid.Parse(c.Param("teacher_id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid teacher id"))
		return
	}

	var status domain.PayoutStatus
	switch s := c.Query("status"); s {
	case "":
		// All statuses
	case string(domain.PayoutStatusUnpaid), string(domain.PayoutStatusPaid):
		status = domain.PayoutStatus(s)
	default:
		response.Error(c, apperror.Validation("invalid payout status"))
		return
	}

	payouts, err := h.payoutSvc.ListByTeacher(c.Request.Context(), teacherID, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, payouts)
}
