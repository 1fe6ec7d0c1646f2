package handler

import (
"elearning-payments/internal/adapter/http/dto"
"elearning-payments/internal/core/ports"
"elearning-payments/pkg/response"

"github.com/gin-gonic/gin"
)

// DashboardHandler handles platform statistics endpoints.
type DashboardHandler struct {
reportingSvc ports.ReportingService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(reportingSvc ports.ReportingService) *DashboardHandler {
return &DashboardHandler{reportingSvc: reportingSvc}
}

// GetStats handles GET /api/v1/admin/dashboard/stats.
func (h *DashboardHandler) GetStats(c *gin.Context) {
stats, err := h.reportingSvc.GetDashboardStats(c.Request.Context())
if err != nil {
response.Error(c, err)
return
}

response.OK(c, dto.DashboardStatsResponse{
TotalTransactions: stats.TotalTransactions,
Successful:        stats.Successful,
Failed:            stats.Failed,
Pending:           stats.Pending,
GrossRevenue:      stats.GrossRevenue,
})
}
