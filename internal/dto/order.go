package dto

import "time"

type CustomerDTO struct {
	Name    string `json:"name" example:"Acme GmbH"`
	Email   string `json:"email" example:"purchasing@acme.example"`
	Phone   string `json:"phone" example:"+49 30 1234567"`
	Address string `json:"address" example:"Hauptstr. 1, Berlin"`
}

type LineItemDTO struct {
	ProductID string  `json:"productId,omitempty" example:"6f1f8aca-0423-4c3a-8d90-6f6a2a7f5c10"`
	Name      string  `json:"name" example:"Business cards 90x50"`
	Quantity  int     `json:"quantity" example:"2"`
	Price     float64 `json:"price" example:"10"`
	Subtotal  float64 `json:"subtotal,omitempty" example:"20"`
}

// OrderRequestDTO is the full payload for create and update; totals are
// advisory and recomputed server-side.
type OrderRequestDTO struct {
	Customer      CustomerDTO   `json:"customer"`
	Items         []LineItemDTO `json:"items"`
	Status        string        `json:"status,omitempty" example:"pending"`
	PaymentStatus string        `json:"paymentStatus,omitempty" example:"pending"`
	PaymentMethod string        `json:"paymentMethod" example:"invoice"`
	Notes         string        `json:"notes,omitempty"`
}

type OrderResponseDTO struct {
	ID            string        `json:"id" example:"9b2ce5c2-43b8-4e25-9d3e-2a9f9a3a9f11"`
	Customer      CustomerDTO   `json:"customer"`
	Items         []LineItemDTO `json:"items"`
	Status        string        `json:"status" example:"pending"`
	PaymentStatus string        `json:"paymentStatus" example:"pending"`
	PaymentMethod string        `json:"paymentMethod" example:"invoice"`
	TotalAmount   float64       `json:"totalAmount" example:"20"`
	Notes         string        `json:"notes,omitempty"`
	CreatedBy     string        `json:"createdBy,omitempty"`
	UpdatedBy     string        `json:"updatedBy,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type PaginationDTO struct {
	Total  int `json:"total" example:"42"`
	Limit  int `json:"limit" example:"20"`
	Offset int `json:"offset" example:"0"`
}

type OrdersListResponseDTO struct {
	Orders     []OrderResponseDTO `json:"orders"`
	Pagination PaginationDTO      `json:"pagination"`
}

type UpdateOrderStatusRequestDTO struct {
	Status string `json:"status" example:"processing"`
}

type BulkPatchDTO struct {
	Status        *string `json:"status,omitempty" example:"completed"`
	PaymentStatus *string `json:"paymentStatus,omitempty" example:"paid"`
	Notes         *string `json:"notes,omitempty"`
}

type BulkOrderRequestDTO struct {
	Action   string       `json:"action" example:"updateStatus"`
	OrderIDs []string     `json:"orderIds"`
	Patch    BulkPatchDTO `json:"patch"`
}

type BulkOrderResponseDTO struct {
	Action   string   `json:"action" example:"updateStatus"`
	OrderIDs []string `json:"orderIds"`
	Affected int64    `json:"affected" example:"2"`
}

type DeleteOrderResponseDTO struct {
	ID string `json:"id" example:"9b2ce5c2-43b8-4e25-9d3e-2a9f9a3a9f11"`
}
