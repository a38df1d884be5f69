package dto

import "time"

type BalanceResponseDTO struct {
	Balance      float64 `json:"balance" example:"500.5"`
	Currency     string  `json:"currency" example:"USD"`
	CreditScore  int     `json:"creditScore" example:"80"`
	CreditLimit  float64 `json:"creditLimit" example:"1000"`
	PaymentTerms string  `json:"paymentTerms" example:"net30"`
}

type TransactionResponseDTO struct {
	ID          string    `json:"id" example:"b7a5cf44-15c1-4f9a-9c93-dc6d54a8b911"`
	Type        string    `json:"type" example:"topup"`
	Amount      float64   `json:"amount" example:"50"`
	Status      string    `json:"status" example:"completed"`
	Method      string    `json:"method,omitempty" example:"bank_transfer"`
	Reference   string    `json:"reference,omitempty"`
	AccountInfo string    `json:"accountInfo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TopUpRequestDTO struct {
	UserID        string  `json:"userId" example:"4b39e7dc-89ad-4c5a-94a8-6cd4b0f0a111"`
	Amount        float64 `json:"amount" example:"50"`
	PaymentMethod string  `json:"paymentMethod" example:"bank_transfer"`
	Reference     string  `json:"reference,omitempty" example:"INV-2024-0001"`
}

type WithdrawRequestDTO struct {
	UserID         string  `json:"userId" example:"4b39e7dc-89ad-4c5a-94a8-6cd4b0f0a111"`
	Amount         float64 `json:"amount" example:"100"`
	WithdrawMethod string  `json:"withdrawMethod" example:"card"`
	AccountInfo    string  `json:"accountInfo" example:"4561261212345467"`
}
