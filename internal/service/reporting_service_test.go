package service

import (
"context"
"errors"
"testing"

"elearning-payments/internal/core/ports"
"elearning-payments/internal/core/ports/mocks"
"elearning-payments/pkg/apperror"

"github.com/stretchr/testify/assert"
"github.com/stretchr/testify/require"
"go.uber.org/mock/gomock"
)

func TestReportingService_GetDashboardStats(t *testing.T) {
ctrl := gomock.NewController(t)
defer ctrl.Finish()

mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
svc := NewReportingService(mockTxRepo)

expected := &ports.TransactionStats{
TotalTransactions: 100,
Successful:        80,
Failed:            15,
Pending:           5,
GrossRevenue:      5000000,
}

mockTxRepo.EXPECT().GetStats(gomock.Any()).Return(expected, nil)

result, err := svc.GetDashboardStats(context.Background())
require.NoError(t, err)
assert.Equal(t, expected, result)
}

func TestReportingService_GetDashboardStats_Error(t *testing.T) {
ctrl := gomock.NewController(t)
defer ctrl.Finish()

mockTxRepo := mocks.NewMockTransactionRepository(ctrl)
svc := NewReportingService(mockTxRepo)

mockTxRepo.EXPECT().GetStats(gomock.Any()).Return(nil, errors.New("db error"))

_, err := svc.GetDashboardStats(context.Background())
require.Error(t, err)

var appErr *apperror.AppError
assert.ErrorAs(t, err, &appErr)
assert.Equal(t, "SYS_001", appErr.Code)
}
