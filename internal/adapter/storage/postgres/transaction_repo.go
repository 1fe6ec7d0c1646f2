package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, transaction_code, student_id, amount, payment_gateway, status, created_at, processed_at`

// Create inserts a new transaction within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, transaction_code, student_id, amount, payment_gateway, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.Code, t.StudentID, t.Amount, t.PaymentGateway, t.Status, t.CreatedAt, t.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// CreateDetail inserts a transaction detail line within a database transaction.
func (r *TransactionRepo) CreateDetail(ctx context.Context, tx pgx.Tx, d *domain.TransactionDetail) error {
	query := `INSERT INTO transaction_details (id, transaction_id, course_id, teacher_id, price, commission_rate)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		d.ID, d.TransactionID, d.CourseID, d.TeacherID, d.Price, d.CommissionRate,
	)
	if err != nil {
		return fmt.Errorf("insert transaction detail: %w", err)
	}
	return nil
}

// GetByCode fetches a transaction by its gateway reference code within the
// caller's unit of work.
func (r *TransactionRepo) GetByCode(ctx context.Context, tx pgx.Tx, code string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_code = $1`

	return r.scanTransaction(tx.QueryRow(ctx, query, code))
}

// GetPendingByCodeForUpdate fetches and row-locks the PENDING transaction
// with the given code. Concurrent callbacks for the same code block here
// until the first one commits, after which they see no PENDING row.
func (r *TransactionRepo) GetPendingByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE transaction_code = $1 AND status = 'PENDING' FOR UPDATE`

	return r.scanTransaction(tx.QueryRow(ctx, query, code))
}

// ListDetails fetches the detail lines of a transaction.
func (r *TransactionRepo) ListDetails(ctx context.Context, transactionID uuid.UUID) ([]domain.TransactionDetail, error) {
	query := `SELECT id, transaction_id, course_id, teacher_id, price, commission_rate
		FROM transaction_details WHERE transaction_id = $1`

	rows, err := r.pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction details: %w", err)
	}
	defer rows.Close()

	var details []domain.TransactionDetail
	for rows.Next() {
		d := domain.TransactionDetail{}
		err := rows.Scan(&d.ID, &d.TransactionID, &d.CourseID, &d.TeacherID, &d.Price, &d.CommissionRate)
		if err != nil {
			return nil, fmt.Errorf("scan transaction detail row: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction detail rows: %w", err)
	}
	return details, nil
}

// UpdateStatus updates a transaction's status within a database transaction.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error {
	now := time.Now()
	query := `UPDATE transactions SET status = $1, processed_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, status, now, id)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// CodeExists reports whether a transaction code is already taken.
func (r *TransactionRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE transaction_code = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check transaction code exists: %w", err)
	}
	return exists, nil
}

// ExpirePending marks PENDING transactions older than the cutoff as FAILED.
func (r *TransactionRepo) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE transactions SET status = 'FAILED', processed_at = NOW()
		WHERE status = 'PENDING' AND created_at < $1`

	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire pending transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByStudent fetches a student's transactions, newest first.
func (r *TransactionRepo) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE student_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by student: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(&t.ID, &t.Code, &t.StudentID, &t.Amount, &t.PaymentGateway, &t.Status, &t.CreatedAt, &t.ProcessedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// GetStats retrieves aggregated settlement statistics.
func (r *TransactionRepo) GetStats(ctx context.Context) (*ports.TransactionStats, error) {
	query := `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'SUCCESS') AS successful,
		COUNT(*) FILTER (WHERE status = 'FAILED') AS failed,
		COUNT(*) FILTER (WHERE status = 'PENDING') AS pending,
		COALESCE(SUM(amount) FILTER (WHERE status = 'SUCCESS'), 0) AS gross_revenue
		FROM transactions`

	stats := &ports.TransactionStats{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalTransactions, &stats.Successful, &stats.Failed, &stats.Pending, &stats.GrossRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("get transaction stats: %w", err)
	}
	return stats, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.Code, &t.StudentID, &t.Amount, &t.PaymentGateway, &t.Status, &t.CreatedAt, &t.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
