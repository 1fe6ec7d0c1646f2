package service

import (
	"context"
	"fmt"
	"time"

	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"
	"elearning-payments/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EnrollmentServiceImpl implements ports.EnrollmentService.
type EnrollmentServiceImpl struct {
	enrollRepo ports.EnrollmentRepository
	courseRepo ports.CourseRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentServiceImpl.
func NewEnrollmentService(enrollRepo ports.EnrollmentRepository, courseRepo ports.CourseRepository, transactor ports.DBTransactor, log zerolog.Logger) *EnrollmentServiceImpl {
	return &EnrollmentServiceImpl{
		enrollRepo: enrollRepo,
		courseRepo: courseRepo,
		transactor: transactor,
		log:        log,
	}
}

// Enroll grants a student direct access to a course. Paid enrollments go
// through the settlement flow instead; this path covers free courses and
// administrative grants.
func (s *EnrollmentServiceImpl) Enroll(ctx context.Context, studentID, courseID uuid.UUID) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load course: %w", err))
	}
	if course == nil {
		return apperror.ErrNotFound("Course")
	}

	enrolled, err := s.enrollRepo.Exists(ctx, studentID, courseID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check enrollment: %w", err))
	}
	if enrolled {
		return apperror.ErrAlreadyEnrolled(courseID)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	enrollment := &domain.Enrollment{
		ID:        uuid.New(),
		StudentID: studentID,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.enrollRepo.Create(ctx, dbTx, enrollment); err != nil {
		return apperror.InternalError(fmt.Errorf("create enrollment: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("student_id", studentID.String()).
		Str("course_id", courseID.String()).
		Msg("student enrolled")

	return nil
}

// Unenroll revokes a student's access to a course.
func (s *EnrollmentServiceImpl) Unenroll(ctx context.Context, studentID, courseID uuid.UUID) error {
	enrolled, err := s.enrollRepo.Exists(ctx, studentID, courseID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check enrollment: %w", err))
	}
	if !enrolled {
		return apperror.ErrNotEnrolled()
	}
	if err := s.enrollRepo.Delete(ctx, studentID, courseID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete enrollment: %w", err))
	}
	return nil
}

// ListCourses returns the courses the student is enrolled in.
func (s *EnrollmentServiceImpl) ListCourses(ctx context.Context, studentID uuid.UUID) ([]domain.Course, error) {
	courses, err := s.courseRepo.ListEnrolled(ctx, studentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list enrolled courses: %w", err))
	}
	return courses, nil
}
