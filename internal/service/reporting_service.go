package service

import (
"context"

"elearning-payments/internal/core/ports"
"elearning-payments/pkg/apperror"
)

// reportingService implements ports.ReportingService.
type reportingService struct {
txRepo ports.TransactionRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(txRepo ports.TransactionRepository) ports.ReportingService {
return &reportingService{txRepo: txRepo}
}

// GetDashboardStats returns aggregated settlement stats for the admin dashboard.
func (s *reportingService) GetDashboardStats(ctx context.Context) (*ports.TransactionStats, error) {
stats, err := s.txRepo.GetStats(ctx)
if err != nil {
return nil, apperror.InternalError(err)
}
return stats, nil
}
