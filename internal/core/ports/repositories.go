package ports

import (
	"context"
	"time"

	"elearning-payments/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

// UserRepository defines persistence operations for platform accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CourseRepository defines read access to the course catalog. The payment
// core never writes courses.
type CourseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	// ListByIDs returns the courses found for the given ids; callers detect
	// missing ids by comparing lengths.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error)
	// ListEnrolled returns the courses a student is enrolled in.
	ListEnrolled(ctx context.Context, studentID uuid.UUID) ([]domain.Course, error)
}

// TransactionRepository defines persistence operations for transactions
// and their detail lines. Methods accepting pgx.Tx run inside an atomic
// unit of work.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	CreateDetail(ctx context.Context, tx pgx.Tx, d *domain.TransactionDetail) error
	GetByCode(ctx context.Context, tx pgx.Tx, code string) (*domain.Transaction, error)
	// GetPendingByCodeForUpdate fetches the PENDING transaction with the
	// given code and row-locks it (SELECT ... FOR UPDATE) so concurrent
	// gateway callbacks for the same code serialize.
	GetPendingByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.Transaction, error)
	ListDetails(ctx context.Context, transactionID uuid.UUID) ([]domain.TransactionDetail, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error
	CodeExists(ctx context.Context, code string) (bool, error)
	// ExpirePending marks PENDING transactions created before the cutoff as
	// FAILED and returns the number of rows affected.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Transaction, error)
	GetStats(ctx context.Context) (*TransactionStats, error)
}

// TransactionStats holds aggregated settlement figures for the admin dashboard.
type TransactionStats struct {
	TotalTransactions int64
	Successful        int64
	Failed            int64
	Pending           int64
	GrossRevenue      int64 // Sum of successful transaction amounts
}

// EnrollmentRepository defines persistence operations for enrollments.
type EnrollmentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, e *domain.Enrollment) error
	Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
	Delete(ctx context.Context, studentID, courseID uuid.UUID) error
}

// PayoutRepository defines persistence operations for teacher payouts.
type PayoutRepository interface {
	Create(ctx context.Context, tx pgx.Tx, p *domain.TeacherPayout) error
	// GetSummaries aggregates per-teacher UNPAID and PAID totals. Teachers
	// without payout rows do not appear.
	GetSummaries(ctx context.Context) ([]PayoutSummary, error)
	// MarkPaidByTeacher flips every UNPAID payout of the teacher to PAID in
	// one batch write and returns the number of rows affected.
	MarkPaidByTeacher(ctx context.Context, tx pgx.Tx, teacherID uuid.UUID) (int64, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, status domain.PayoutStatus) ([]domain.TeacherPayout, error)
}

// PayoutSummary is one teacher's aggregated payout position.
type PayoutSummary struct {
	TeacherID    uuid.UUID `json:"teacher_id"`
	TeacherName  string    `json:"teacher_name"`
	TeacherEmail string    `json:"teacher_email"`
	TotalUnpaid  int64     `json:"total_unpaid"`
	TotalPaid    int64     `json:"total_paid"`
}

// CartRepository defines persistence operations for cart items.
type CartRepository interface {
	Create(ctx context.Context, item *domain.CartItem) error
	Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
	Delete(ctx context.Context, studentID, courseID uuid.UUID) error
	// DeleteInTx removes a cart item inside the settlement unit of work.
	// Deleting a row that does not exist is not an error.
	DeleteInTx(ctx context.Context, tx pgx.Tx, studentID, courseID uuid.UUID) error
	// ListCourses returns the courses currently in a student's cart.
	ListCourses(ctx context.Context, studentID uuid.UUID) ([]domain.Course, error)
	Count(ctx context.Context, studentID uuid.UUID) (int, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
