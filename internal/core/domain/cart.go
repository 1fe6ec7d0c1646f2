package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem marks a course a student intends to buy. Unique per
// (student, course); removed explicitly by the student or automatically
// after the course is successfully purchased.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	CourseID  uuid.UUID `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}
