package ports

import (
	"context"
	"time"

	"elearning-payments/internal/core/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// Gateway acknowledgement codes returned to the payment provider's IPN caller.
const (
	IPNAckOK    = "00" // Recorded (or already recorded)
	IPNAckError = "97" // Signature failure or internal error; provider retries
)

// GatewayCodec builds redirect URLs for the payment gateway and verifies
// signed callbacks coming back from it.
type GatewayCodec interface {
	// BuildPaymentURL returns the full redirect URL for a checkout.
	BuildPaymentURL(ctx context.Context, req GatewayPaymentRequest) (string, error)
	// VerifyCallback checks the HMAC signature over the callback params.
	// The returned map contains the params with signature fields removed.
	VerifyCallback(params map[string]string) (map[string]string, bool)
}

// GatewayPaymentRequest holds the fields the gateway URL is built from.
type GatewayPaymentRequest struct {
	TxnRef    string
	Amount    int64 // VND, before the gateway's x100 scaling
	OrderInfo string
	ClientIP  string
	CreatedAt time.Time
}

// AckCache caches gateway acknowledgements so retried callbacks for an
// already-settled transaction skip the database entirely.
type AckCache interface {
	Get(ctx context.Context, code string) (string, error) // Returns cached ack or "" on miss
	Set(ctx context.Context, code string, ack string, ttl time.Duration) error
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.UserRole) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   domain.UserRole
}

// --- Service Ports (Business Logic) ---

// PaymentService defines checkout and settlement business logic.
type PaymentService interface {
	// Checkout opens a PENDING transaction for the given courses and returns
	// the gateway redirect URL.
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	// HandleIPN processes a gateway callback and returns the acknowledgement
	// code to hand back to the gateway (IPNAckOK or IPNAckError).
	HandleIPN(ctx context.Context, params map[string]string) string
	History(ctx context.Context, studentID uuid.UUID) ([]domain.Transaction, error)
}

// CheckoutRequest holds validated input for opening a checkout.
type CheckoutRequest struct {
	StudentID uuid.UUID
	CourseIDs []uuid.UUID
	ClientIP  string
}

// CheckoutResult holds the opened transaction and the gateway redirect URL.
type CheckoutResult struct {
	TransactionCode string
	Amount          int64
	PaymentURL      string
}

// PayoutService defines teacher payout business logic.
type PayoutService interface {
	GetPayoutSummaries(ctx context.Context) ([]PayoutSummary, error)
	// PayoutToTeacher marks every UNPAID payout of the teacher as PAID and
	// returns the number of payouts settled.
	PayoutToTeacher(ctx context.Context, teacherID uuid.UUID) (int64, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, status domain.PayoutStatus) ([]domain.TeacherPayout, error)
}

// CartService defines shopping cart business logic.
type CartService interface {
	AddToCart(ctx context.Context, studentID, courseID uuid.UUID) error
	GetCart(ctx context.Context, studentID uuid.UUID) (*CartView, error)
	RemoveFromCart(ctx context.Context, studentID, courseID uuid.UUID) error
	CountItems(ctx context.Context, studentID uuid.UUID) (int, error)
}

// CartView is the cart contents with its totals.
type CartView struct {
	Courses       []domain.Course `json:"courses"`
	ItemCount     int             `json:"item_count"`
	Subtotal      int64           `json:"subtotal"`       // Sum of effective prices
	OriginalTotal int64           `json:"original_total"` // Sum of list prices
}

// EnrollmentService defines enrollment business logic.
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID uuid.UUID) error
	Unenroll(ctx context.Context, studentID, courseID uuid.UUID) error
	ListCourses(ctx context.Context, studentID uuid.UUID) ([]domain.Course, error)
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// RegisterRequest holds input for account registration.
type RegisterRequest struct {
	FullName string
	Email    string
	Password string
	Role     domain.UserRole
}

// LoginResult holds a successful login's token and profile.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// ReportingService defines dashboard/reporting business logic.
type ReportingService interface {
	GetDashboardStats(ctx context.Context) (*TransactionStats, error)
}

// ReconcileService sweeps stale PENDING transactions.
type ReconcileService interface {
	ExpireStalePending(ctx context.Context) (int64, error)
}
