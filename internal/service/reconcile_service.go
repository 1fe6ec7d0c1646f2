package service

import (
	"context"
	"fmt"
	"time"

	"elearning-payments/internal/core/ports"

	"github.com/rs/zerolog"
)

// ReconcileServiceImpl implements ports.ReconcileService. It sweeps
// PENDING transactions whose gateway callback never arrived, typically
// abandoned checkouts, and fails them so they stop counting as open.
type ReconcileServiceImpl struct {
	txRepo     ports.TransactionRepository
	pendingTTL time.Duration
	log        zerolog.Logger
}

// NewReconcileService creates a new ReconcileServiceImpl.
func NewReconcileService(txRepo ports.TransactionRepository, pendingTTL time.Duration, log zerolog.Logger) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{
		txRepo:     txRepo,
		pendingTTL: pendingTTL,
		log:        log,
	}
}

// ExpireStalePending fails every PENDING transaction older than the
// configured TTL and returns the number of rows swept.
func (s *ReconcileServiceImpl) ExpireStalePending(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.pendingTTL)
	expired, err := s.txRepo.ExpirePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire pending transactions: %w", err)
	}
	if expired > 0 {
		s.log.Info().
			Int64("expired", expired).
			Time("cutoff", cutoff).
			Msg("stale pending transactions failed")
	}
	return expired, nil
}
