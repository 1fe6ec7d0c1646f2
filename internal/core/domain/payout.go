package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PayoutStatus represents the bookkeeping state of a teacher's share.
type PayoutStatus string

const (
	PayoutStatusUnpaid PayoutStatus = "UNPAID"
	PayoutStatusPaid   PayoutStatus = "PAID"
)

// TeacherPayout is a teacher's earned share of one sold course line,
// linked one-to-one to its TransactionDetail. AmountEarned + PlatformFee
// always equals the detail's price exactly.
type TeacherPayout struct {
	ID                  uuid.UUID    `json:"id"`
	TeacherID           uuid.UUID    `json:"teacher_id"`
	TransactionDetailID uuid.UUID    `json:"transaction_detail_id"`
	AmountEarned        int64        `json:"amount_earned"`
	PlatformFee         int64        `json:"platform_fee"`
	Status              PayoutStatus `json:"status"`
	CreatedAt           time.Time    `json:"created_at"`
	PaidAt              *time.Time   `json:"paid_at,omitempty"`
}

// SplitPrice divides a line price between the platform and the teacher.
// Only the fee is rounded; the earning is the remainder, so
// fee + earning == price holds exactly for any rate.
func SplitPrice(price int64, commissionRate float64) (platformFee, teacherEarning int64) {
	platformFee = int64(math.Round(float64(price) * commissionRate))
	teacherEarning = price - platformFee
	return platformFee, teacherEarning
}
