package service

import (
	"context"
	"fmt"

	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"
	"elearning-payments/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PayoutServiceImpl implements ports.PayoutService.
type PayoutServiceImpl struct {
	payoutRepo ports.PayoutRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewPayoutService creates a new PayoutServiceImpl.
func NewPayoutService(payoutRepo ports.PayoutRepository, transactor ports.DBTransactor, log zerolog.Logger) *PayoutServiceImpl {
	return &PayoutServiceImpl{
		payoutRepo: payoutRepo,
		transactor: transactor,
		log:        log,
	}
}

// GetPayoutSummaries returns per-teacher unpaid and paid totals.
func (s *PayoutServiceImpl) GetPayoutSummaries(ctx context.Context) ([]ports.PayoutSummary, error) {
	summaries, err := s.payoutRepo.GetSummaries(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load payout summaries: %w", err))
	}
	return summaries, nil
}

// PayoutToTeacher marks every UNPAID payout of the teacher as PAID in a
// single transaction. All rows flip together or not at all, so a payout
// run can never be half-applied.
func (s *PayoutServiceImpl) PayoutToTeacher(ctx context.Context, teacherID uuid.UUID) (int64, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	settled, err := s.payoutRepo.MarkPaidByTeacher(ctx, dbTx, teacherID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("mark payouts paid: %w", err))
	}
	if settled == 0 {
		return 0, apperror.ErrNoUnpaidPayouts()
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("teacher_id", teacherID.String()).
		Int64("payouts_settled", settled).
		Msg("teacher payout completed")

	return settled, nil
}

// ListByTeacher returns a teacher's payout lines, optionally filtered by
// status. An empty status returns all lines.
func (s *PayoutServiceImpl) ListByTeacher(ctx context.Context, teacherID uuid.UUID, status domain.PayoutStatus) ([]domain.TeacherPayout, error) {
	payouts, err := s.payoutRepo.ListByTeacher(ctx, teacherID, status)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list payouts: %w", err))
	}
	return payouts, nil
}
