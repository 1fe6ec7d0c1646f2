package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"
	"elearning-payments/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	ackCacheTTL = 24 * time.Hour

	// transactionCodeLen digits of crypto/rand entropy per gateway reference.
	transactionCodeLen = 12
	codeRetryLimit     = 5
)

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	txRepo     ports.TransactionRepository
	courseRepo ports.CourseRepository
	enrollRepo ports.EnrollmentRepository
	payoutRepo ports.PayoutRepository
	cartRepo   ports.CartRepository
	codec      ports.GatewayCodec
	ackCache   ports.AckCache
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	txRepo ports.TransactionRepository,
	courseRepo ports.CourseRepository,
	enrollRepo ports.EnrollmentRepository,
	payoutRepo ports.PayoutRepository,
	cartRepo ports.CartRepository,
	codec ports.GatewayCodec,
	ackCache ports.AckCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		txRepo:     txRepo,
		courseRepo: courseRepo,
		enrollRepo: enrollRepo,
		payoutRepo: payoutRepo,
		cartRepo:   cartRepo,
		codec:      codec,
		ackCache:   ackCache,
		transactor: transactor,
		log:        log,
	}
}

// Checkout validates the whole course batch, opens a PENDING transaction
// with one detail line per course, and returns the gateway redirect URL.
// Nothing is enrolled or paid out here; that happens when the gateway
// confirms via HandleIPN.
func (s *PaymentServiceImpl) Checkout(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutResult, error) {
	courseIDs := dedupeIDs(req.CourseIDs)
	if len(courseIDs) == 0 {
		return nil, apperror.ErrEmptyCheckout()
	}

	courses, err := s.courseRepo.ListByIDs(ctx, courseIDs)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load courses: %w", err))
	}
	if missing := missingIDs(courseIDs, courses); len(missing) > 0 {
		return nil, apperror.ErrCoursesNotFound(missing)
	}

	// The whole batch is rejected if any course is already owned.
	for _, course := range courses {
		enrolled, err := s.enrollRepo.Exists(ctx, req.StudentID, course.ID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("check enrollment: %w", err))
		}
		if enrolled {
			return nil, apperror.ErrAlreadyEnrolled(course.ID)
		}
	}

	var amount int64
	for _, course := range courses {
		amount += course.EffectivePrice()
	}
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	code, err := s.generateTransactionCode(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate transaction code: %w", err))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:             uuid.New(),
		Code:           code,
		StudentID:      req.StudentID,
		Amount:         amount,
		PaymentGateway: domain.GatewayVNPay,
		Status:         domain.TransactionStatusPending,
		CreatedAt:      now,
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	for _, course := range courses {
		detail := &domain.TransactionDetail{
			ID:             uuid.New(),
			TransactionID:  txn.ID,
			CourseID:       course.ID,
			TeacherID:      course.TeacherID,
			Price:          course.EffectivePrice(),
			CommissionRate: course.CommissionRate,
		}
		if err := s.txRepo.CreateDetail(ctx, dbTx, detail); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create transaction detail: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	payURL, err := s.codec.BuildPaymentURL(ctx, ports.GatewayPaymentRequest{
		TxnRef:    code,
		Amount:    amount,
		OrderInfo: "Thanh toan don hang " + code,
		ClientIP:  req.ClientIP,
		CreatedAt: now,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("build payment url: %w", err))
	}

	s.log.Info().
		Str("transaction_code", code).
		Str("student_id", req.StudentID.String()).
		Int64("amount", amount).
		Int("courses", len(courses)).
		Msg("checkout opened")

	return &ports.CheckoutResult{
		TransactionCode: code,
		Amount:          amount,
		PaymentURL:      payURL,
	}, nil
}

// HandleIPN processes a gateway callback and returns the acknowledgement
// code for the gateway. "00" means recorded (including retries of an
// already-settled code); "97" makes the gateway retry later.
func (s *PaymentServiceImpl) HandleIPN(ctx context.Context, params map[string]string) string {
	fields, ok := s.codec.VerifyCallback(params)
	if !ok {
		return ports.IPNAckError
	}

	code := fields["vnp_TxnRef"]
	if code == "" {
		return ports.IPNAckError
	}

	// Fast path: the gateway retried a callback we already answered.
	if ack, err := s.ackCache.Get(ctx, code); err != nil {
		s.log.Warn().Err(err).Str("transaction_code", code).Msg("ack cache check failed, falling through to db")
	} else if ack != "" {
		return ack
	}

	ack, err := s.settleCallback(ctx, code, fields)
	if err != nil {
		s.log.Error().Err(err).Str("transaction_code", code).Msg("ipn settlement failed")
		return ports.IPNAckError
	}

	// Best-effort; a cache miss just means the retry hits the db again.
	if err := s.ackCache.Set(ctx, code, ack, ackCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("transaction_code", code).Msg("failed to cache ack")
	}
	return ack
}

// settleCallback runs the settlement unit of work: lock the PENDING row,
// flip its status, and on approval fan out enrollments and payouts. All
// writes commit or roll back together.
func (s *PaymentServiceImpl) settleCallback(ctx context.Context, code string, fields map[string]string) (string, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	txn, err := s.txRepo.GetPendingByCodeForUpdate(ctx, dbTx, code)
	if err != nil {
		return "", fmt.Errorf("lock pending transaction: %w", err)
	}
	if txn == nil {
		// No PENDING row: either the code is unknown or a previous
		// callback already settled it. A settled code is acknowledged
		// again so the gateway stops retrying.
		existing, err := s.txRepo.GetByCode(ctx, dbTx, code)
		if err != nil {
			return "", fmt.Errorf("load transaction: %w", err)
		}
		if existing == nil {
			s.log.Warn().Str("transaction_code", code).Msg("ipn for unknown transaction code")
			return ports.IPNAckError, nil
		}
		s.log.Info().
			Str("transaction_code", code).
			Str("status", string(existing.Status)).
			Msg("ipn retry for settled transaction")
		if existing.Status == domain.TransactionStatusSuccess {
			return ports.IPNAckOK, nil
		}
		return ports.IPNAckError, nil
	}

	approved := fields["vnp_ResponseCode"] == "00" && fields["vnp_TransactionStatus"] == "00"

	// The amount is informational only; the authoritative amount was
	// fixed at checkout. A mismatch is logged for reconciliation.
	if gwAmount, err := strconv.ParseInt(fields["vnp_Amount"], 10, 64); err == nil {
		if gwAmount != txn.Amount*100 {
			s.log.Warn().
				Str("transaction_code", code).
				Int64("expected", txn.Amount*100).
				Int64("received", gwAmount).
				Msg("gateway amount mismatch")
		}
	}

	if !approved {
		if err := s.txRepo.UpdateStatus(ctx, dbTx, txn.ID, domain.TransactionStatusFailed); err != nil {
			return "", fmt.Errorf("mark transaction failed: %w", err)
		}
		if err := dbTx.Commit(ctx); err != nil {
			return "", fmt.Errorf("commit tx: %w", err)
		}
		s.log.Info().
			Str("transaction_code", code).
			Str("response_code", fields["vnp_ResponseCode"]).
			Msg("transaction rejected by gateway")
		return ports.IPNAckOK, nil
	}

	if err := s.txRepo.UpdateStatus(ctx, dbTx, txn.ID, domain.TransactionStatusSuccess); err != nil {
		return "", fmt.Errorf("mark transaction success: %w", err)
	}

	details, err := s.txRepo.ListDetails(ctx, txn.ID)
	if err != nil {
		return "", fmt.Errorf("list transaction details: %w", err)
	}

	now := time.Now().UTC()
	for _, detail := range details {
		// The student may have been enrolled between checkout and
		// callback (manual admin grant). The payout is still owed, so
		// only the enrollment insert is skipped.
		enrolled, err := s.enrollRepo.Exists(ctx, txn.StudentID, detail.CourseID)
		if err != nil {
			return "", fmt.Errorf("check enrollment: %w", err)
		}
		if !enrolled {
			enrollment := &domain.Enrollment{
				ID:        uuid.New(),
				StudentID: txn.StudentID,
				CourseID:  detail.CourseID,
				CreatedAt: now,
			}
			if err := s.enrollRepo.Create(ctx, dbTx, enrollment); err != nil {
				return "", fmt.Errorf("create enrollment: %w", err)
			}
		}

		fee, earning := domain.SplitPrice(detail.Price, detail.CommissionRate)
		payout := &domain.TeacherPayout{
			ID:                  uuid.New(),
			TeacherID:           detail.TeacherID,
			TransactionDetailID: detail.ID,
			AmountEarned:        earning,
			PlatformFee:         fee,
			Status:              domain.PayoutStatusUnpaid,
			CreatedAt:           now,
		}
		if err := s.payoutRepo.Create(ctx, dbTx, payout); err != nil {
			return "", fmt.Errorf("create teacher payout: %w", err)
		}

		if err := s.cartRepo.DeleteInTx(ctx, dbTx, txn.StudentID, detail.CourseID); err != nil {
			return "", fmt.Errorf("clear cart item: %w", err)
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}

	s.log.Info().
		Str("transaction_code", code).
		Str("student_id", txn.StudentID.String()).
		Int64("amount", txn.Amount).
		Int("courses", len(details)).
		Msg("transaction settled")

	return ports.IPNAckOK, nil
}

// History returns a student's transactions, newest first.
func (s *PaymentServiceImpl) History(ctx context.Context, studentID uuid.UUID) ([]domain.Transaction, error) {
	txns, err := s.txRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// generateTransactionCode draws random numeric codes until one is free.
func (s *PaymentServiceImpl) generateTransactionCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeRetryLimit; attempt++ {
		code, err := randomDigits(transactionCodeLen)
		if err != nil {
			return "", err
		}
		exists, err := s.txRepo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("exhausted %d attempts", codeRetryLimit)
}

func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("read random digit: %w", err)
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(wanted []uuid.UUID, found []domain.Course) []uuid.UUID {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, c := range found {
		have[c.ID] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range wanted {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
