package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course is the purchasable catalog entry. The payment core only reads
// courses; pricing and commission are copied into TransactionDetail at
// checkout time so later edits never touch settled transactions.
type Course struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	TeacherID      uuid.UUID `json:"teacher_id"`
	Price          int64     `json:"price"`          // list price, VND
	DiscountPrice  int64     `json:"discount_price"` // sale price actually charged, VND
	CommissionRate float64   `json:"commission_rate"`
	CreatedAt      time.Time `json:"created_at"`
}

// EffectivePrice returns the price actually charged: the discount price
// when one is set, the list price otherwise.
func (c *Course) EffectivePrice() int64 {
	if c.DiscountPrice > 0 && c.DiscountPrice < c.Price {
		return c.DiscountPrice
	}
	return c.Price
}
