package postgres

import (
	"context"
	"errors"
	"fmt"

	"elearning-payments/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CourseRepo implements ports.CourseRepository.
type CourseRepo struct {
	pool Pool
}

// NewCourseRepo creates a new CourseRepo.
func NewCourseRepo(pool Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

const courseColumns = `id, title, teacher_id, price, discount_price, commission_rate, created_at`

// GetByID fetches a course by its UUID.
func (r *CourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	c := &domain.Course{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.TeacherID, &c.Price, &c.DiscountPrice, &c.CommissionRate, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by id: %w", err)
	}
	return c, nil
}

// ListByIDs fetches the courses matching the given ids. Missing ids are
// simply absent from the result.
func (r *CourseRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list courses by ids: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// ListEnrolled fetches the courses a student is enrolled in, newest first.
func (r *CourseRepo) ListEnrolled(ctx context.Context, studentID uuid.UUID) ([]domain.Course, error) {
	query := `SELECT c.id, c.title, c.teacher_id, c.price, c.discount_price, c.commission_rate, c.created_at
		FROM courses c
		JOIN enrollments e ON e.course_id = c.id
		WHERE e.student_id = $1
		ORDER BY e.created_at DESC`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

func scanCourses(rows pgx.Rows) ([]domain.Course, error) {
	var courses []domain.Course
	for rows.Next() {
		c := domain.Course{}
		err := rows.Scan(&c.ID, &c.Title, &c.TeacherID, &c.Price, &c.DiscountPrice, &c.CommissionRate, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course rows: %w", err)
	}
	return courses, nil
}
