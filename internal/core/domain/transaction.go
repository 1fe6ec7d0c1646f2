package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus represents the lifecycle state of a checkout attempt.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// GatewayVNPay tags transactions settled through the VNPAY gateway.
const GatewayVNPay = "VNPAY"

// Transaction is one checkout attempt covering one or more courses.
// Code is the sole correlation key with the external gateway and is
// unique across all transactions.
type Transaction struct {
	ID             uuid.UUID         `json:"id"`
	Code           string            `json:"code"`
	StudentID      uuid.UUID         `json:"student_id"`
	Amount         int64             `json:"amount"` // sum of line prices, VND
	PaymentGateway string            `json:"payment_gateway"`
	Status         TransactionStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	ProcessedAt    *time.Time        `json:"processed_at,omitempty"`
}

// IsTerminal returns true once the transaction reached a final state.
// A terminal transaction never transitions again.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusSuccess || t.Status == TransactionStatusFailed
}

// TransactionDetail is one course line within a Transaction. Price,
// commission rate and the selling teacher are snapshots taken at
// checkout; they are never recomputed from the course afterwards.
type TransactionDetail struct {
	ID             uuid.UUID `json:"id"`
	TransactionID  uuid.UUID `json:"transaction_id"`
	CourseID       uuid.UUID `json:"course_id"`
	TeacherID      uuid.UUID `json:"teacher_id"`
	Price          int64     `json:"price"`
	CommissionRate float64   `json:"commission_rate"`
}
