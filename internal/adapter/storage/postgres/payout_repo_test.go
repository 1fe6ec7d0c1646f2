package postgres

import (
	"context"
	"testing"
	"time"

	"elearning-payments/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayoutRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	payout := &domain.TeacherPayout{
		ID:                  uuid.New(),
		TeacherID:           uuid.New(),
		TransactionDetailID: uuid.New(),
		AmountEarned:        350000,
		PlatformFee:         150000,
		Status:              domain.PayoutStatusUnpaid,
		CreatedAt:           time.Now().UTC(),
		PaidAt:              nil,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teacher_payouts").
		WithArgs(
			payout.ID, payout.TeacherID, payout.TransactionDetailID,
			payout.AmountEarned, payout.PlatformFee, payout.Status,
			payout.CreatedAt, payout.PaidAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), dbTx, payout)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_GetSummaries(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	teacherA := uuid.New()
	teacherB := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM teacher_payouts .+ GROUP BY").
		WillReturnRows(pgxmock.NewRows(
			[]string{"teacher_id", "full_name", "email", "total_unpaid", "total_paid"},
		).
			AddRow(teacherA, "Alice Nguyen", "alice@example.com", int64(350000), int64(120000)).
			AddRow(teacherB, "Bob Tran", "bob@example.com", int64(0), int64(500000)))

	summaries, err := repo.GetSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, teacherA, summaries[0].TeacherID)
	assert.Equal(t, "Alice Nguyen", summaries[0].TeacherName)
	assert.Equal(t, int64(350000), summaries[0].TotalUnpaid)
	assert.Equal(t, int64(0), summaries[1].TotalUnpaid)
	assert.Equal(t, int64(500000), summaries[1].TotalPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_MarkPaidByTeacher(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	teacherID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teacher_payouts SET status = 'PAID'").
		WithArgs(pgxmock.AnyArg(), teacherID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 4))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	n, err := repo.MarkPaidByTeacher(context.Background(), dbTx, teacherID)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_MarkPaidByTeacher_NoUnpaidRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teacher_payouts SET status = 'PAID'").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	n, err := repo.MarkPaidByTeacher(context.Background(), dbTx, uuid.New())
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_ListByTeacher(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	teacherID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .+ FROM teacher_payouts WHERE teacher_id").
		WithArgs(teacherID, string(domain.PayoutStatusUnpaid)).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "teacher_id", "transaction_detail_id", "amount_earned", "platform_fee", "status", "created_at", "paid_at"},
		).AddRow(uuid.New(), teacherID, uuid.New(), int64(350000), int64(150000), domain.PayoutStatusUnpaid, now, (*time.Time)(nil)))

	payouts, err := repo.ListByTeacher(context.Background(), teacherID, domain.PayoutStatusUnpaid)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, int64(350000), payouts[0].AmountEarned)
	assert.Nil(t, payouts[0].PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_ListByTeacher_AllStatuses(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	teacherID := uuid.New()
	now := time.Now().UTC()

	// Empty status must not be matched against the status column.
	mock.ExpectQuery("SELECT .+ FROM teacher_payouts WHERE teacher_id").
		WithArgs(teacherID, "").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "teacher_id", "transaction_detail_id", "amount_earned", "platform_fee", "status", "created_at", "paid_at"},
		).
			AddRow(uuid.New(), teacherID, uuid.New(), int64(350000), int64(150000), domain.PayoutStatusPaid, now, &now).
			AddRow(uuid.New(), teacherID, uuid.New(), int64(240000), int64(60000), domain.PayoutStatusUnpaid, now, (*time.Time)(nil)))

	payouts, err := repo.ListByTeacher(context.Background(), teacherID, "")
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	assert.Equal(t, domain.PayoutStatusPaid, payouts[0].Status)
	assert.Equal(t, domain.PayoutStatusUnpaid, payouts[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
