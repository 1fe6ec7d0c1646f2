package handler

import (
	"elearning-payments/internal/core/ports"
	"elearning-payments/pkg/apperror"
	"elearning-payments/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EnrollmentHandler handles enrollment endpoints. Students list their own
// courses; granting and revoking enrollments directly is an admin operation,
// the paid path goes through settlement.
type EnrollmentHandler struct {
	enrollSvc ports.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollSvc ports.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollSvc: enrollSvc}
}

// ListMyCourses handles GET /api/v1/enrollments.
func (h *EnrollmentHandler) ListMyCourses(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	courses, err := h.enrollSvc.ListCourses(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Grant handles POST /api/v1/admin/enrollments/:student_id/:course_id.
func (h *EnrollmentHandler) Grant(c *gin.Context) {
	studentID, courseID, err := enrollmentParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.enrollSvc.Enroll(c.Request.Context(), studentID, courseID); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"student_id": studentID.String(),
		"course_id":  courseID.String(),
	})
}

// Revoke handles DELETE /api/v1/admin/enrollments/:student_id/:course_id.
func (h *EnrollmentHandler) Revoke(c *gin.Context) {
	studentID, courseID, err := enrollmentParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.enrollSvc.Unenroll(c.Request.Context(), studentID, courseID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"student_id": studentID.String(),
		"course_id":  courseID.String(),
	})
}

func enrollmentParams(c *gin.Context) (uuid.UUID, uuid.UUID, error) {
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.Validation("invalid student id")
	}
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.Validation("invalid course id")
	}
	return studentID, courseID, nil
}
