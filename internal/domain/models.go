package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string          `db:"id"`
	Email        string          `db:"email"`
	Name         string          `db:"name"`
	PasswordHash string          `db:"password_hash"`
	Role         string          `db:"role"`
	Balance      decimal.Decimal `db:"balance"`
	Currency     string          `db:"currency"`
	CreditScore  int             `db:"credit_score"`
	CreditLimit  decimal.Decimal `db:"credit_limit"`
	PaymentTerms string          `db:"payment_terms"`
	CreatedAt    time.Time       `db:"created_at"`
}

// LedgerAccount is the billing view of a user row.
type LedgerAccount struct {
	UserID       string          `db:"user_id"`
	Balance      decimal.Decimal `db:"balance"`
	Currency     string          `db:"currency"`
	CreditScore  int             `db:"credit_score"`
	CreditLimit  decimal.Decimal `db:"credit_limit"`
	PaymentTerms string          `db:"payment_terms"`
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type LineItem struct {
	ProductID string          `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID            string          `db:"id"`
	Customer      Customer        `db:"customer"`
	Items         []LineItem      `db:"items"`
	Status        OrderStatus     `db:"status"`
	PaymentStatus PaymentStatus   `db:"payment_status"`
	PaymentMethod string          `db:"payment_method"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Notes         string          `db:"notes"`
	CreatedBy     string          `db:"created_by"`
	UpdatedBy     string          `db:"updated_by"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// Total recomputes the order total from line items. Caller-supplied totals
// are display-only and never persisted.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

type Transaction struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Type        TransactionType `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	Status      string          `db:"status"`
	Method      string          `db:"method"`
	Reference   string          `db:"reference"`
	AccountInfo string          `db:"account_info"`
	CreatedAt   time.Time       `db:"created_at"`
}

type Product struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	SKU         string          `db:"sku"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
