package products

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/dto"
	"github.com/ecoprint/b2b-manager/internal/query"
	"github.com/ecoprint/b2b-manager/pkg/utils"
)

//go:generate mockgen -source=products.go -destination=products_mock.go -package=products

type Service interface {
	List(ctx context.Context, f query.Filter) ([]domain.Product, int, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type ProductHandler struct {
	productService Service
}

func New(productService Service) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func toResponse(p *domain.Product) dto.ProductResponseDTO {
	return dto.ProductResponseDTO{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Description	Catalog listing with the same search/sort/pagination surface as orders.
//	@Tags			Products
//	@Produce		json
//	@Param			searchTerm	query	string	false	"Substring match on name/sku/description"
//	@Param			sortBy		query	string	false	"createdAt|name|price"
//	@Param			sortOrder	query	string	false	"asc|desc"
//	@Param			limit		query	int		false	"Page size"
//	@Param			offset		query	int		false	"Rows to skip"
//	@Success		200	{object}	dto.ProductsListResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid filter"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := query.Filter{
		SearchTerm: q.Get("searchTerm"),
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		f.Offset = n
	}

	products, total, err := h.productService.List(r.Context(), f)
	if err != nil {
		if domain.IsValidation(err) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := dto.ProductsListResponseDTO{
		Products: make([]dto.ProductResponseDTO, len(products)),
		Pagination: dto.PaginationDTO{
			Total:  total,
			Limit:  f.Limit,
			Offset: f.Offset,
		},
	}
	if resp.Pagination.Limit <= 0 {
		resp.Pagination.Limit = query.DefaultLimit
	}
	for i := range products {
		resp.Products[i] = toResponse(&products[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetProduct godoc
//
//	@Summary	Get one product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		string	true	"Product id"
//	@Success	200	{object}	dto.ProductResponseDTO
//	@Failure	404	{object}	utils.Response	"Product not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(product))
}
