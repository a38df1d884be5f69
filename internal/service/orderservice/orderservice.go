package orderservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/query"
	orderrepo "github.com/ecoprint/b2b-manager/internal/repo/order-repo"
	"github.com/ecoprint/b2b-manager/pkg/auth"
	"github.com/ecoprint/b2b-manager/pkg/validate"
)

//go:generate mockgen -source=orderservice.go -destination=orderservice_mock.go -package=orderservice

type Repo interface {
	Find(ctx context.Context, f query.Filter) ([]domain.Order, int, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id string) (bool, error)
	BulkUpdate(ctx context.Context, ids []string, patch orderrepo.Patch, actor string) (int64, error)
	BulkDelete(ctx context.Context, ids []string) (int64, error)
}

// Notifier is the best-effort hook fired after a status change commits.
// Implementations must never block the caller or surface failures.
type Notifier interface {
	OrderStatusChanged(orderID string, from, to domain.OrderStatus, actor string)
	Broadcast(changes []domain.StatusChange, actor string)
}

const (
	BulkActionUpdate       = "update"
	BulkActionDelete       = "delete"
	BulkActionUpdateStatus = "updateStatus"
)

var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrEmptyBulkIDs      = errors.New("bulk operation requires at least one order id")
	ErrUnknownBulkAction = errors.New("unknown bulk action")
	ErrEmptyBulkPatch    = errors.New("bulk update requires a non-empty patch")
)

type Service struct {
	repo     Repo
	notifier Notifier
}

func New(repo Repo, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
	}
}

// validateOrder applies the full-payload rules shared by create and update.
func validateOrder(order *domain.Order) error {
	verr := domain.NewValidationError()

	if order.Customer.Name == "" {
		verr.Add("customer.name", "required")
	}
	if !validate.IsEmail(order.Customer.Email) {
		verr.Add("customer.email", "invalid email")
	}
	if order.Customer.Phone == "" {
		verr.Add("customer.phone", "required")
	}
	if order.Customer.Address == "" {
		verr.Add("customer.address", "required")
	}
	if len(order.Items) == 0 {
		verr.Add("items", "at least one item is required")
	}
	for i, item := range order.Items {
		if item.Name == "" {
			verr.Add(fmt.Sprintf("items[%d].name", i), "required")
		}
		if item.Quantity <= 0 {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero")
		}
		if !item.Price.IsPositive() {
			verr.Add(fmt.Sprintf("items[%d].price", i), "must be greater than zero")
		}
	}
	if order.PaymentStatus != "" && !order.PaymentStatus.Valid() {
		verr.Add("paymentStatus", "unknown payment status")
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}

// recompute derives subtotals and the order total server-side. Caller totals
// are never trusted.
func recompute(order *domain.Order) {
	for i := range order.Items {
		qty := int64(order.Items[i].Quantity)
		order.Items[i].Subtotal = order.Items[i].Price.Mul(decimal.NewFromInt(qty))
	}
	order.TotalAmount = order.Total()
}

func (s *Service) Create(ctx context.Context, payload *domain.Order, actor auth.Actor) (*domain.Order, error) {
	if err := validateOrder(payload); err != nil {
		return nil, err
	}

	now := time.Now()
	order := *payload
	order.ID = uuid.NewString()
	order.Status = domain.StatusPending
	order.PaymentStatus = domain.PaymentPending
	order.CreatedBy = actor.UserID
	order.UpdatedBy = actor.UserID
	order.CreatedAt = now
	order.UpdatedAt = now
	recompute(&order)

	if err := s.repo.Save(ctx, &order); err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return nil, err
	}
	return &order, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		zap.L().Error("failed to get order", zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, f query.Filter) ([]domain.Order, int, error) {
	orders, total, err := s.repo.Find(ctx, f)
	if err != nil {
		zap.L().Error("failed to list orders", zap.Error(err))
		return nil, 0, err
	}
	return orders, total, nil
}

// Update replaces the order's content wholesale. Status changes ride through
// UpdateStatus; a differing status in the payload is transition-checked too.
func (s *Service) Update(ctx context.Context, id string, payload *domain.Order, actor auth.Actor) (*domain.Order, error) {
	if err := validateOrder(payload); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	order := *payload
	order.ID = current.ID
	order.CreatedBy = current.CreatedBy
	order.CreatedAt = current.CreatedAt
	order.UpdatedBy = actor.UserID
	order.UpdatedAt = time.Now()
	if order.Status == "" {
		order.Status = current.Status
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = current.PaymentStatus
	}
	if order.Status != current.Status {
		if !order.Status.Valid() {
			verr := domain.NewValidationError()
			verr.Add("status", "unknown status")
			return nil, verr
		}
		if terr := domain.ValidateStatusTransition(current.Status, order.Status); terr != nil {
			return nil, fmt.Errorf("%w: %v", ErrIllegalTransition, terr)
		}
	}
	recompute(&order)

	if err := s.repo.Update(ctx, &order); err != nil {
		zap.L().Error("failed to update order", zap.Error(err))
		return nil, err
	}
	if order.Status != current.Status {
		s.notifier.OrderStatusChanged(order.ID, current.Status, order.Status, actor.UserID)
	}
	return &order, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, actor auth.Actor) (*domain.Order, error) {
	if !status.Valid() {
		verr := domain.NewValidationError()
		verr.Add("status", "unknown status")
		return nil, verr
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if err := domain.ValidateStatusTransition(order.Status, status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllegalTransition, err)
	}

	from := order.Status
	order.Status = status
	order.UpdatedBy = actor.UserID
	order.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, order); err != nil {
		zap.L().Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	// Post-transition hook: fire-and-forget, never rolls back the write.
	s.notifier.OrderStatusChanged(order.ID, from, status, actor.UserID)

	return order, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		zap.L().Error("failed to delete order", zap.Error(err))
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// BulkOperations applies one action to a set of ids as a single atomic write
// and reports the aggregate affected count.
func (s *Service) BulkOperations(ctx context.Context, action string, ids []string, patch orderrepo.Patch, actor auth.Actor) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptyBulkIDs
	}

	switch action {
	case BulkActionDelete:
		return s.repo.BulkDelete(ctx, ids)
	case BulkActionUpdateStatus:
		if patch.Status == nil || !patch.Status.Valid() {
			verr := domain.NewValidationError()
			verr.Add("status", "valid status is required")
			return 0, verr
		}
		// Every target must pass the transition table before anything is
		// written; one illegal transition rejects the whole bulk.
		changes := make([]domain.StatusChange, 0, len(ids))
		for _, id := range ids {
			order, err := s.repo.FindByID(ctx, id)
			if err != nil {
				return 0, err
			}
			if order == nil {
				return 0, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
			}
			if terr := domain.ValidateStatusTransition(order.Status, *patch.Status); terr != nil {
				return 0, fmt.Errorf("%w: order %s: %v", ErrIllegalTransition, id, terr)
			}
			changes = append(changes, domain.StatusChange{OrderID: id, From: order.Status, To: *patch.Status})
		}
		patch = orderrepo.Patch{Status: patch.Status}
		count, err := s.repo.BulkUpdate(ctx, ids, patch, actor.UserID)
		if err != nil {
			return 0, err
		}
		s.notifier.Broadcast(changes, actor.UserID)
		return count, nil
	case BulkActionUpdate:
		if patch.Empty() {
			return 0, ErrEmptyBulkPatch
		}
		if patch.Status != nil && !patch.Status.Valid() {
			verr := domain.NewValidationError()
			verr.Add("status", "unknown status")
			return 0, verr
		}
		if patch.PaymentStatus != nil && !patch.PaymentStatus.Valid() {
			verr := domain.NewValidationError()
			verr.Add("paymentStatus", "unknown payment status")
			return 0, verr
		}
		return s.repo.BulkUpdate(ctx, ids, patch, actor.UserID)
	default:
		return 0, ErrUnknownBulkAction
	}
}
