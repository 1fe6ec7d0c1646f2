package domain

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment grants a student access to a course. At most one row exists
// per (student, course) pair.
type Enrollment struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	CourseID  uuid.UUID `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}
