package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email already exists")
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// --- In-Memory Course Repo ---

type inMemoryCourseRepo struct {
	mu         sync.RWMutex
	courses    map[uuid.UUID]*domain.Course
	enrollRepo *inMemoryEnrollmentRepo
}

func newInMemoryCourseRepo(enrollRepo *inMemoryEnrollmentRepo) *inMemoryCourseRepo {
	return &inMemoryCourseRepo{
		courses:    make(map[uuid.UUID]*domain.Course),
		enrollRepo: enrollRepo,
	}
}

func (r *inMemoryCourseRepo) seed(c *domain.Course) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses[c.ID] = c
}

func (r *inMemoryCourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *inMemoryCourseRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *inMemoryCourseRepo) ListEnrolled(ctx context.Context, studentID uuid.UUID) ([]domain.Course, error) {
	courseIDs := r.enrollRepo.courseIDsOf(studentID)
	return r.ListByIDs(ctx, courseIDs)
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
	details      map[uuid.UUID][]domain.TransactionDetail
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{
		transactions: make(map[uuid.UUID]*domain.Transaction),
		details:      make(map[uuid.UUID][]domain.TransactionDetail),
	}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.transactions[t.ID] = &cp
	return nil
}

func (r *inMemoryTransactionRepo) CreateDetail(ctx context.Context, tx pgx.Tx, d *domain.TransactionDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details[d.TransactionID] = append(r.details[d.TransactionID], *d)
	return nil
}

func (r *inMemoryTransactionRepo) GetByCode(ctx context.Context, tx pgx.Tx, code string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions {
		if t.Code == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) GetPendingByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions {
		if t.Code == code && t.Status == domain.TransactionStatusPending {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) ListDetails(ctx context.Context, transactionID uuid.UUID) ([]domain.TransactionDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.TransactionDetail(nil), r.details[transactionID]...), nil
}

func (r *inMemoryTransactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok {
		return fmt.Errorf("transaction not found")
	}
	t.Status = status
	now := time.Now()
	t.ProcessedAt = &now
	return nil
}

func (r *inMemoryTransactionRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions {
		if t.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryTransactionRepo) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired int64
	for _, t := range r.transactions {
		if t.Status == domain.TransactionStatusPending && t.CreatedAt.Before(cutoff) {
			t.Status = domain.TransactionStatusFailed
			expired++
		}
	}
	return expired, nil
}

func (r *inMemoryTransactionRepo) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if t.StudentID == studentID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (r *inMemoryTransactionRepo) GetStats(ctx context.Context) (*ports.TransactionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.TransactionStats{}
	for _, t := range r.transactions {
		stats.TotalTransactions++
		switch t.Status {
		case domain.TransactionStatusSuccess:
			stats.Successful++
			stats.GrossRevenue += t.Amount
		case domain.TransactionStatusFailed:
			stats.Failed++
		case domain.TransactionStatusPending:
			stats.Pending++
		}
	}
	return stats, nil
}

// --- In-Memory Enrollment Repo ---

type inMemoryEnrollmentRepo struct {
	mu          sync.RWMutex
	enrollments map[uuid.UUID]*domain.Enrollment
}

func newInMemoryEnrollmentRepo() *inMemoryEnrollmentRepo {
	return &inMemoryEnrollmentRepo{enrollments: make(map[uuid.UUID]*domain.Enrollment)}
}

func (r *inMemoryEnrollmentRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.enrollments {
		if existing.StudentID == e.StudentID && existing.CourseID == e.CourseID {
			return fmt.Errorf("already enrolled")
		}
	}
	r.enrollments[e.ID] = e
	return nil
}

func (r *inMemoryEnrollmentRepo) Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryEnrollmentRepo) Delete(ctx context.Context, studentID, courseID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			delete(r.enrollments, id)
			return nil
		}
	}
	return nil
}

func (r *inMemoryEnrollmentRepo) courseIDsOf(studentID uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []uuid.UUID
	for _, e := range r.enrollments {
		if e.StudentID == studentID {
			ids = append(ids, e.CourseID)
		}
	}
	return ids
}

func (r *inMemoryEnrollmentRepo) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.enrollments)
}

// --- In-Memory Payout Repo ---

type inMemoryPayoutRepo struct {
	mu       sync.RWMutex
	payouts  map[uuid.UUID]*domain.TeacherPayout
	userRepo *inMemoryUserRepo
}

func newInMemoryPayoutRepo(userRepo *inMemoryUserRepo) *inMemoryPayoutRepo {
	return &inMemoryPayoutRepo{
		payouts:  make(map[uuid.UUID]*domain.TeacherPayout),
		userRepo: userRepo,
	}
}

func (r *inMemoryPayoutRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.TeacherPayout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payouts[p.ID] = p
	return nil
}

func (r *inMemoryPayoutRepo) GetSummaries(ctx context.Context) ([]ports.PayoutSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byTeacher := make(map[uuid.UUID]*ports.PayoutSummary)
	for _, p := range r.payouts {
		s, ok := byTeacher[p.TeacherID]
		if !ok {
			s = &ports.PayoutSummary{TeacherID: p.TeacherID}
			if u, _ := r.userRepo.GetByID(ctx, p.TeacherID); u != nil {
				s.TeacherName = u.FullName
				s.TeacherEmail = u.Email
			}
			byTeacher[p.TeacherID] = s
		}
		if p.Status == domain.PayoutStatusUnpaid {
			s.TotalUnpaid += p.AmountEarned
		} else {
			s.TotalPaid += p.AmountEarned
		}
	}
	result := make([]ports.PayoutSummary, 0, len(byTeacher))
	for _, s := range byTeacher {
		result = append(result, *s)
	}
	return result, nil
}

func (r *inMemoryPayoutRepo) MarkPaidByTeacher(ctx context.Context, tx pgx.Tx, teacherID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var settled int64
	for _, p := range r.payouts {
		if p.TeacherID == teacherID && p.Status == domain.PayoutStatusUnpaid {
			p.Status = domain.PayoutStatusPaid
			p.PaidAt = &now
			settled++
		}
	}
	return settled, nil
}

func (r *inMemoryPayoutRepo) ListByTeacher(ctx context.Context, teacherID uuid.UUID, status domain.PayoutStatus) ([]domain.TeacherPayout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.TeacherPayout
	for _, p := range r.payouts {
		if p.TeacherID != teacherID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

// --- In-Memory Cart Repo ---

type inMemoryCartRepo struct {
	mu         sync.RWMutex
	items      map[uuid.UUID]*domain.CartItem
	courseRepo *inMemoryCourseRepo
}

func newInMemoryCartRepo(courseRepo *inMemoryCourseRepo) *inMemoryCartRepo {
	return &inMemoryCartRepo{
		items:      make(map[uuid.UUID]*domain.CartItem),
		courseRepo: courseRepo,
	}
}

func (r *inMemoryCartRepo) Create(ctx context.Context, item *domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *inMemoryCartRepo) Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.StudentID == studentID && item.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryCartRepo) Delete(ctx context.Context, studentID, courseID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.items {
		if item.StudentID == studentID && item.CourseID == courseID {
			delete(r.items, id)
			return nil
		}
	}
	return nil
}

func (r *inMemoryCartRepo) DeleteInTx(ctx context.Context, tx pgx.Tx, studentID, courseID uuid.UUID) error {
	return r.Delete(ctx, studentID, courseID)
}

func (r *inMemoryCartRepo) ListCourses(ctx context.Context, studentID uuid.UUID) ([]domain.Course, error) {
	r.mu.RLock()
	var ids []uuid.UUID
	for _, item := range r.items {
		if item.StudentID == studentID {
			ids = append(ids, item.CourseID)
		}
	}
	r.mu.RUnlock()
	return r.courseRepo.ListByIDs(ctx, ids)
}

func (r *inMemoryCartRepo) Count(ctx context.Context, studentID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, item := range r.items {
		if item.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes whole units of work with a single mutex,
// standing in for the row locks the postgres adapter takes. Concurrent
// gateway callbacks for the same code therefore settle one at a time,
// exactly like SELECT ... FOR UPDATE serializes them in production.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: &t.mu}, nil
}

// memTx is a pgx.Tx implementation that holds the transactor lock until
// Commit or Rollback, whichever comes first.
type memTx struct {
	release *sync.Mutex
	once    sync.Once
}

func (t *memTx) end() {
	t.once.Do(func() { t.release.Unlock() })
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error          { t.end(); return nil }
func (t *memTx) Rollback(ctx context.Context) error        { t.end(); return nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }
