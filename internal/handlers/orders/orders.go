package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/dto"
	"github.com/ecoprint/b2b-manager/internal/query"
	orderrepo "github.com/ecoprint/b2b-manager/internal/repo/order-repo"
	orderservice "github.com/ecoprint/b2b-manager/internal/service/orderservice"
	"github.com/ecoprint/b2b-manager/pkg/auth"
	"github.com/ecoprint/b2b-manager/pkg/utils"
)

//go:generate mockgen -source=orders.go -destination=orders_mock.go -package=orders

type Service interface {
	Create(ctx context.Context, payload *domain.Order, actor auth.Actor) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, f query.Filter) ([]domain.Order, int, error)
	Update(ctx context.Context, id string, payload *domain.Order, actor auth.Actor) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, actor auth.Actor) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	BulkOperations(ctx context.Context, action string, ids []string, patch orderrepo.Patch, actor auth.Actor) (int64, error)
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func toDomain(req dto.OrderRequestDTO) *domain.Order {
	items := make([]domain.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     decimal.NewFromFloat(item.Price),
		}
	}
	return &domain.Order{
		Customer: domain.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		Items:         items,
		Status:        domain.OrderStatus(req.Status),
		PaymentStatus: domain.PaymentStatus(req.PaymentStatus),
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
}

func toResponse(order *domain.Order) dto.OrderResponseDTO {
	items := make([]dto.LineItemDTO, len(order.Items))
	for i, item := range order.Items {
		items[i] = dto.LineItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
			Subtotal:  item.Subtotal.InexactFloat64(),
		}
	}
	return dto.OrderResponseDTO{
		ID: order.ID,
		Customer: dto.CustomerDTO{
			Name:    order.Customer.Name,
			Email:   order.Customer.Email,
			Phone:   order.Customer.Phone,
			Address: order.Customer.Address,
		},
		Items:         items,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		PaymentMethod: order.PaymentMethod,
		TotalAmount:   order.TotalAmount.InexactFloat64(),
		Notes:         order.Notes,
		CreatedBy:     order.CreatedBy,
		UpdatedBy:     order.UpdatedBy,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func filterFromQuery(r *http.Request) (query.Filter, error) {
	q := r.URL.Query()
	f := query.Filter{
		Status:     q.Get("status"),
		SearchTerm: q.Get("searchTerm"),
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	}
	verr := domain.NewValidationError()
	var ok bool
	if f.DateFrom, ok = parseDate(q.Get("startDate")); !ok {
		verr.Add("startDate", "invalid date")
	}
	if f.DateTo, ok = parseDate(q.Get("endDate")); !ok {
		verr.Add("endDate", "invalid date")
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			verr.Add("limit", "must be an integer")
		} else {
			f.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			verr.Add("offset", "must be an integer")
		} else {
			f.Offset = n
		}
	}
	if !verr.Empty() {
		return f, verr
	}
	return f, nil
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, orderservice.ErrIllegalTransition):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orderservice.ErrEmptyBulkIDs),
		errors.Is(err, orderservice.ErrUnknownBulkAction),
		errors.Is(err, orderservice.ErrEmptyBulkPatch):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// ListOrders godoc
//
//	@Summary		List orders
//	@Description	Filtered, sorted, paginated order listing. Total reflects the active filter.
//	@Tags			Orders
//	@Produce		json
//	@Param			status		query	string	false	"Status filter"
//	@Param			startDate	query	string	false	"Created-at range start (with endDate)"
//	@Param			endDate		query	string	false	"Created-at range end (with startDate)"
//	@Param			searchTerm	query	string	false	"Substring match on customer fields"
//	@Param			sortBy		query	string	false	"createdAt|updatedAt|totalAmount|status"
//	@Param			sortOrder	query	string	false	"asc|desc"
//	@Param			limit		query	int		false	"Page size"
//	@Param			offset		query	int		false	"Rows to skip"
//	@Success		200	{object}	dto.OrdersListResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid filter"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, total, err := h.orderService.List(r.Context(), f)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := dto.OrdersListResponseDTO{
		Orders: make([]dto.OrderResponseDTO, len(orders)),
		Pagination: dto.PaginationDTO{
			Total:  total,
			Limit:  f.Limit,
			Offset: f.Offset,
		},
	}
	if resp.Pagination.Limit <= 0 {
		resp.Pagination.Limit = query.DefaultLimit
	}
	for i := range orders {
		resp.Orders[i] = toResponse(&orders[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetOrder godoc
//
//	@Summary	Get one order
//	@Tags		Orders
//	@Produce	json
//	@Param		id	path		string	true	"Order id"
//	@Success	200	{object}	dto.OrderResponseDTO
//	@Failure	404	{object}	utils.Response	"Order not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(order))
}

// CreateOrder godoc
//
//	@Summary		Create an order
//	@Description	Validates the payload, recomputes totals server-side, persists with status pending.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.OrderRequestDTO	true	"Order payload"
//	@Success		201		{object}	dto.OrderResponseDTO
//	@Failure		400		{object}	utils.Response	"Validation failed"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	var req dto.OrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.Create(r.Context(), toDomain(req), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toResponse(order))
}

// UpdateOrder godoc
//
//	@Summary		Replace an order
//	@Description	Full-document replace; the payload is re-validated and totals recomputed.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Order id"
//	@Param			request	body		dto.OrderRequestDTO	true	"Order payload"
//	@Success		200		{object}	dto.OrderResponseDTO
//	@Failure		400		{object}	utils.Response	"Validation failed"
//	@Failure		404		{object}	utils.Response	"Order not found"
//	@Failure		409		{object}	utils.Response	"Illegal status transition"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/orders/{id} [put]
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	var req dto.OrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.Update(r.Context(), chi.URLParam(r, "id"), toDomain(req), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(order))
}

// UpdateOrderStatus godoc
//
//	@Summary		Update order status
//	@Description	Moves the order along the status state machine; illegal transitions are rejected.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Order id"
//	@Param			request	body		dto.UpdateOrderStatusRequestDTO	true	"Target status"
//	@Success		200		{object}	dto.OrderResponseDTO
//	@Failure		400		{object}	utils.Response	"Unknown status"
//	@Failure		404		{object}	utils.Response	"Order not found"
//	@Failure		409		{object}	utils.Response	"Illegal status transition"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	var req dto.UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(order))
}

// DeleteOrder godoc
//
//	@Summary	Delete an order
//	@Tags		Orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Order id"
//	@Success	200	{object}	dto.DeleteOrderResponseDTO
//	@Failure	404	{object}	utils.Response	"Order not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.orderService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.DeleteOrderResponseDTO{ID: id})
}

// BulkOrders godoc
//
//	@Summary		Bulk order operation
//	@Description	Applies update, delete, or updateStatus to a set of order ids as one atomic write.
//	@Tags			Orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.BulkOrderRequestDTO	true	"Bulk request"
//	@Success		200		{object}	dto.BulkOrderResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid bulk request"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Order not found"
//	@Failure		409		{object}	utils.Response	"Illegal status transition"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/orders/bulk [post]
func (h *OrderHandler) BulkOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	var req dto.BulkOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := orderrepo.Patch{Notes: req.Patch.Notes}
	if req.Patch.Status != nil {
		status := domain.OrderStatus(*req.Patch.Status)
		patch.Status = &status
	}
	if req.Patch.PaymentStatus != nil {
		ps := domain.PaymentStatus(*req.Patch.PaymentStatus)
		patch.PaymentStatus = &ps
	}

	affected, err := h.orderService.BulkOperations(r.Context(), req.Action, req.OrderIDs, patch, actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BulkOrderResponseDTO{
		Action:   req.Action,
		OrderIDs: req.OrderIDs,
		Affected: affected,
	})
}
