package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/pg"
	"github.com/ecoprint/b2b-manager/internal/query"
)

const orderColumns = `id, customer_name, customer_email, customer_phone, customer_address, items, status, payment_status, payment_method, total_amount, notes, created_by, updated_by, created_at, updated_at`

// Patch is the field set a bulk update may touch.
type Patch struct {
	Status        *domain.OrderStatus
	PaymentStatus *domain.PaymentStatus
	Notes         *string
}

func (p Patch) Empty() bool {
	return p.Status == nil && p.PaymentStatus == nil && p.Notes == nil
}

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
	builder   *query.Builder
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
		builder:   query.Orders(),
	}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.Customer.Name, &order.Customer.Email, &order.Customer.Phone,
		&order.Customer.Address, &order.Items, &order.Status, &order.PaymentStatus,
		&order.PaymentMethod, &order.TotalAmount, &order.Notes,
		&order.CreatedBy, &order.UpdatedBy, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Find returns one page of orders plus the total matching the same filter.
func (r *Repository) Find(ctx context.Context, f query.Filter) ([]domain.Order, int, error) {
	compiled, err := r.builder.Compile(f)
	if err != nil {
		return nil, 0, err
	}

	countSQL, countArgs := compiled.CountTail()
	var total int
	err = r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders "+countSQL, countArgs...).Scan(&total)
	if err != nil {
		zap.L().Error("can't count orders", zap.Error(err))
		return nil, 0, err
	}

	tail, args := compiled.Tail()
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM orders %s", orderColumns, tail), args...)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, 0, err
		}
		orders = append(orders, *order)
	}
	return orders, total, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns), id)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	sql := `
        INSERT INTO orders (id, customer_name, customer_email, customer_phone, customer_address,
            items, status, payment_status, payment_method, total_amount, notes,
            created_by, updated_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
    `
	_, err := r.db.Exec(ctx, sql,
		order.ID, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		order.Customer.Address, order.Items, order.Status, order.PaymentStatus,
		order.PaymentMethod, order.TotalAmount, order.Notes,
		order.CreatedBy, order.UpdatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return err
	}
	return nil
}

// Update replaces the mutable fields of one order (full-document semantics).
func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	sql := `
        UPDATE orders
        SET customer_name = $1, customer_email = $2, customer_phone = $3, customer_address = $4,
            items = $5, status = $6, payment_status = $7, payment_method = $8,
            total_amount = $9, notes = $10, updated_by = $11, updated_at = $12
        WHERE id = $13
    `
	tag, err := r.db.Exec(ctx, sql,
		order.Customer.Name, order.Customer.Email, order.Customer.Phone, order.Customer.Address,
		order.Items, order.Status, order.PaymentStatus, order.PaymentMethod,
		order.TotalAmount, order.Notes, order.UpdatedBy, order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		zap.L().Error("failed to update order", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("failed to delete order", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// BulkUpdate applies one patch to every id in a single batched round trip
// inside one transaction, so the write is all-or-nothing. The SET clause is
// assembled from whichever patch fields are present.
func (r *Repository) BulkUpdate(ctx context.Context, ids []string, patch Patch, actor string) (int64, error) {
	sets := make([]string, 0, 4)
	shared := make([]any, 0, 4)
	add := func(column string, value any) {
		shared = append(shared, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(shared)))
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.PaymentStatus != nil {
		add("payment_status", *patch.PaymentStatus)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if len(sets) == 0 {
		return 0, errors.New("empty bulk patch")
	}
	add("updated_by", actor)
	sql := fmt.Sprintf("UPDATE orders SET %s, updated_at = now() WHERE id = $%d",
		strings.Join(sets, ", "), len(shared)+1)

	var affected int64
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		for _, id := range ids {
			batch.Queue(sql, append(append([]any{}, shared...), id)...)
		}
		results := r.db.SendBatch(ctx, batch)
		defer results.Close()
		for range ids {
			tag, err := results.Exec()
			if err != nil {
				return err
			}
			affected += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		zap.L().Error("bulk update failed", zap.Error(err))
		return 0, err
	}
	return affected, nil
}

func (r *Repository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	var affected int64
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = ANY($1)`, ids)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		zap.L().Error("bulk delete failed", zap.Error(err))
		return 0, err
	}
	return affected, nil
}
