package dto

import "time"

type ProductResponseDTO struct {
	ID          string    `json:"id" example:"6f1f8aca-0423-4c3a-8d90-6f6a2a7f5c10"`
	Name        string    `json:"name" example:"Business cards 90x50"`
	SKU         string    `json:"sku" example:"BC-9050"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price" example:"10"`
	Stock       int       `json:"stock" example:"120"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProductsListResponseDTO struct {
	Products   []ProductResponseDTO `json:"products"`
	Pagination PaginationDTO        `json:"pagination"`
}
