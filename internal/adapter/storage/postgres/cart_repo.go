package postgres

import (
	"context"
	"fmt"

	"elearning-payments/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CartRepo implements ports.CartRepository.
type CartRepo struct {
	pool Pool
}

// NewCartRepo creates a new CartRepo.
func NewCartRepo(pool Pool) *CartRepo {
	return &CartRepo{pool: pool}
}

// Create inserts a cart item.
func (r *CartRepo) Create(ctx context.Context, item *domain.CartItem) error {
	query := `INSERT INTO cart_items (id, student_id, course_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, item.ID, item.StudentID, item.CourseID, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// Exists reports whether the course is already in the student's cart.
func (r *CartRepo) Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM cart_items WHERE student_id = $1 AND course_id = $2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, studentID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check cart item exists: %w", err)
	}
	return exists, nil
}

// Delete removes a cart item.
func (r *CartRepo) Delete(ctx context.Context, studentID, courseID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE student_id = $1 AND course_id = $2`

	tag, err := r.pool.Exec(ctx, query, studentID, courseID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart item not found: student %s course %s", studentID, courseID)
	}
	return nil
}

// DeleteInTx removes a cart item inside the settlement unit of work.
// A missing row is fine; the student may have emptied the cart already.
func (r *CartRepo) DeleteInTx(ctx context.Context, tx pgx.Tx, studentID, courseID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE student_id = $1 AND course_id = $2`

	_, err := tx.Exec(ctx, query, studentID, courseID)
	if err != nil {
		return fmt.Errorf("delete cart item in tx: %w", err)
	}
	return nil
}

// ListCourses fetches the courses in a student's cart, newest added first.
func (r *CartRepo) ListCourses(ctx context.Context, studentID uuid.UUID) ([]domain.Course, error) {
	query := `SELECT c.id, c.title, c.teacher_id, c.price, c.discount_price, c.commission_rate, c.created_at
		FROM courses c
		JOIN cart_items ci ON ci.course_id = c.id
		WHERE ci.student_id = $1
		ORDER BY ci.created_at DESC`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list cart courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// Count returns the number of items in the student's cart.
func (r *CartRepo) Count(ctx context.Context, studentID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM cart_items WHERE student_id = $1`

	var count int
	err := r.pool.QueryRow(ctx, query, studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return count, nil
}
