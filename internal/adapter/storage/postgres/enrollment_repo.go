package postgres

import (
	"context"
	"fmt"

	"elearning-payments/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EnrollmentRepo implements ports.EnrollmentRepository.
type EnrollmentRepo struct {
	pool Pool
}

// NewEnrollmentRepo creates a new EnrollmentRepo.
func NewEnrollmentRepo(pool Pool) *EnrollmentRepo {
	return &EnrollmentRepo{pool: pool}
}

// Create inserts an enrollment within a database transaction.
func (r *EnrollmentRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.Enrollment) error {
	query := `INSERT INTO enrollments (id, student_id, course_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := tx.Exec(ctx, query, e.ID, e.StudentID, e.CourseID, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// Exists reports whether the student is enrolled in the course.
func (r *EnrollmentRepo) Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, studentID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment exists: %w", err)
	}
	return exists, nil
}

// Delete removes an enrollment.
func (r *EnrollmentRepo) Delete(ctx context.Context, studentID, courseID uuid.UUID) error {
	query := `DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2`

	tag, err := r.pool.Exec(ctx, query, studentID, courseID)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("enrollment not found: student %s course %s", studentID, courseID)
	}
	return nil
}
