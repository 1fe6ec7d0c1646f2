package postgres

import (
	"context"
	"fmt"
	"time"

	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PayoutRepo implements ports.PayoutRepository.
type PayoutRepo struct {
	pool Pool
}

// NewPayoutRepo creates a new PayoutRepo.
func NewPayoutRepo(pool Pool) *PayoutRepo {
	return &PayoutRepo{pool: pool}
}

// Create inserts a payout line within a database transaction.
func (r *PayoutRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.TeacherPayout) error {
	query := `INSERT INTO teacher_payouts (id, teacher_id, transaction_detail_id, amount_earned, platform_fee, status, created_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		p.ID, p.TeacherID, p.TransactionDetailID, p.AmountEarned, p.PlatformFee, p.Status, p.CreatedAt, p.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("insert teacher payout: %w", err)
	}
	return nil
}

// GetSummaries aggregates UNPAID and PAID totals per teacher. Teachers with
// no payout rows at all are not listed.
func (r *PayoutRepo) GetSummaries(ctx context.Context) ([]ports.PayoutSummary, error) {
	query := `SELECT p.teacher_id, u.full_name, u.email,
		COALESCE(SUM(p.amount_earned) FILTER (WHERE p.status = 'UNPAID'), 0) AS total_unpaid,
		COALESCE(SUM(p.amount_earned) FILTER (WHERE p.status = 'PAID'), 0) AS total_paid
		FROM teacher_payouts p
		JOIN users u ON u.id = p.teacher_id
		GROUP BY p.teacher_id, u.full_name, u.email
		ORDER BY total_unpaid DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get payout summaries: %w", err)
	}
	defer rows.Close()

	var summaries []ports.PayoutSummary
	for rows.Next() {
		s := ports.PayoutSummary{}
		err := rows.Scan(&s.TeacherID, &s.TeacherName, &s.TeacherEmail, &s.TotalUnpaid, &s.TotalPaid)
		if err != nil {
			return nil, fmt.Errorf("scan payout summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payout summary rows: %w", err)
	}
	return summaries, nil
}

// MarkPaidByTeacher flips every UNPAID payout of the teacher to PAID in one
// batch write and returns how many rows were settled.
func (r *PayoutRepo) MarkPaidByTeacher(ctx context.Context, tx pgx.Tx, teacherID uuid.UUID) (int64, error) {
	now := time.Now()
	query := `UPDATE teacher_payouts SET status = 'PAID', paid_at = $1
		WHERE teacher_id = $2 AND status = 'UNPAID'`

	tag, err := tx.Exec(ctx, query, now, teacherID)
	if err != nil {
		return 0, fmt.Errorf("mark payouts paid: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByTeacher fetches a teacher's payouts, newest first. An empty status
// returns every line.
func (r *PayoutRepo) ListByTeacher(ctx context.Context, teacherID uuid.UUID, status domain.PayoutStatus) ([]domain.TeacherPayout, error) {
	query := `SELECT id, teacher_id, transaction_detail_id, amount_earned, platform_fee, status, created_at, paid_at
		FROM teacher_payouts WHERE teacher_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, teacherID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list payouts by teacher: %w", err)
	}
	defer rows.Close()

	return scanPayouts(rows)
}

func scanPayouts(rows pgx.Rows) ([]domain.TeacherPayout, error) {
	var payouts []domain.TeacherPayout
	for rows.Next() {
		p := domain.TeacherPayout{}
		err := rows.Scan(&p.ID, &p.TeacherID, &p.TransactionDetailID, &p.AmountEarned, &p.PlatformFee, &p.Status, &p.CreatedAt, &p.PaidAt)
		if err != nil {
			return nil, fmt.Errorf("scan payout row: %w", err)
		}
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payout rows: %w", err)
	}
	return payouts, nil
}
