package dto

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
FullName string `json:"full_name" binding:"required,min=1,max=100"`
Email    string `json:"email" binding:"required,email,max=255"`
Password string `json:"password" binding:"required,min=8,max=128"`
Role     string `json:"role,omitempty" binding:"omitempty,user_role"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
Email    string `json:"email" binding:"required,email"`
Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
Token  string       `json:"token"`
Expiry int64        `json:"expiry"` // Unix timestamp
User   UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
ID       string `json:"id"`
FullName string `json:"full_name"`
Email    string `json:"email"`
Role     string `json:"role"`
}

// CheckoutRequest is the request body for opening a checkout.
type CheckoutRequest struct {
CourseIDs []string `json:"course_ids" binding:"required,min=1,dive,uuid"`
}

// CheckoutResponse is the response body for a successfully opened checkout.
type CheckoutResponse struct {
TransactionCode string `json:"transaction_code"`
Amount          int64  `json:"amount"`
PaymentURL      string `json:"payment_url"`
}

// AddToCartRequest is the request body for adding a course to the cart.
type AddToCartRequest struct {
CourseID string `json:"course_id" binding:"required,uuid"`
}

// TransactionResponse is one row of the payment history.
type TransactionResponse struct {
ID          string  `json:"id"`
Code        string  `json:"code"`
Amount      int64   `json:"amount"`
Status      string  `json:"status"`
CreatedAt   string  `json:"created_at"`
ProcessedAt *string `json:"processed_at,omitempty"`
}

// PayoutResultResponse is the result of settling a teacher's payouts.
type PayoutResultResponse struct {
TeacherID      string `json:"teacher_id"`
PayoutsSettled int64  `json:"payouts_settled"`
}

// DashboardStatsResponse is the response for dashboard statistics.
type DashboardStatsResponse struct {
TotalTransactions int64 `json:"total_transactions"`
Successful        int64 `json:"successful"`
Failed            int64 `json:"failed"`
Pending           int64 `json:"pending"`
GrossRevenue      int64 `json:"gross_revenue"`
}
