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

// CartServiceImpl implements ports.CartService.
type CartServiceImpl struct {
	cartRepo   ports.CartRepository
	courseRepo ports.CourseRepository
	enrollRepo ports.EnrollmentRepository
	log        zerolog.Logger
}

// NewCartService creates a new CartServiceImpl.
func NewCartService(cartRepo ports.CartRepository, courseRepo ports.CourseRepository, enrollRepo ports.EnrollmentRepository, log zerolog.Logger) *CartServiceImpl {
	return &CartServiceImpl{
		cartRepo:   cartRepo,
		courseRepo: courseRepo,
		enrollRepo: enrollRepo,
		log:        log,
	}
}

// AddToCart puts a course into the student's cart. Courses the student
// already owns or already carted are rejected.
func (s *CartServiceImpl) AddToCart(ctx context.Context, studentID, courseID uuid.UUID) error {
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

	inCart, err := s.cartRepo.Exists(ctx, studentID, courseID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check cart: %w", err))
	}
	if inCart {
		return apperror.ErrAlreadyInCart()
	}

	item := &domain.CartItem{
		ID:        uuid.New(),
		StudentID: studentID,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.cartRepo.Create(ctx, item); err != nil {
		return apperror.InternalError(fmt.Errorf("add cart item: %w", err))
	}
	return nil
}

// GetCart returns the cart contents with its running totals.
func (s *CartServiceImpl) GetCart(ctx context.Context, studentID uuid.UUID) (*ports.CartView, error) {
	courses, err := s.cartRepo.ListCourses(ctx, studentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list cart courses: %w", err))
	}

	view := &ports.CartView{
		Courses:   courses,
		ItemCount: len(courses),
	}
	for i := range courses {
		view.Subtotal += courses[i].EffectivePrice()
		view.OriginalTotal += courses[i].Price
	}
	return view, nil
}

// RemoveFromCart drops a course from the student's cart.
func (s *CartServiceImpl) RemoveFromCart(ctx context.Context, studentID, courseID uuid.UUID) error {
	inCart, err := s.cartRepo.Exists(ctx, studentID, courseID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check cart: %w", err))
	}
	if !inCart {
		return apperror.ErrNotInCart()
	}
	if err := s.cartRepo.Delete(ctx, studentID, courseID); err != nil {
		return apperror.InternalError(fmt.Errorf("remove cart item: %w", err))
	}
	return nil
}

// CountItems returns the number of items in the student's cart.
func (s *CartServiceImpl) CountItems(ctx context.Context, studentID uuid.UUID) (int, error) {
	count, err := s.cartRepo.Count(ctx, studentID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("count cart items: %w", err))
	}
	return count, nil
}
