package domain

import "fmt"

type OrderStatus string

const (
	// StatusPending newly created order, awaiting processing.
	StatusPending OrderStatus = "pending"
	// StatusProcessing order picked up for fulfilment.
	StatusProcessing OrderStatus = "processing"
	// StatusCompleted order fulfilled; terminal.
	StatusCompleted OrderStatus = "completed"
	// StatusCancelled order cancelled; terminal.
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type TransactionType string

const (
	TransactionTopUp    TransactionType = "topup"
	TransactionWithdraw TransactionType = "withdraw"
)

const (
	TransactionCompleted = "completed"
	TransactionPending   = "pending"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == TransactionTopUp || t == TransactionWithdraw
}

// allowedTransitions keys the current status to the set of statuses it may
// move to. Completed and cancelled orders are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// StatusChange records one order's transition for downstream notification.
type StatusChange struct {
	OrderID string
	From    OrderStatus
	To      OrderStatus
}

func ValidateStatusTransition(current, next OrderStatus) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("cannot transition from %s", current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("cannot transition from %s to %s", current, next)
}
