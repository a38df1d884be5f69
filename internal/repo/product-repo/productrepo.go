package productrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/pg"
	"github.com/ecoprint/b2b-manager/internal/query"
)

const productColumns = `id, name, sku, description, price, stock, created_at, updated_at`

type Repository struct {
	db      pg.Database
	builder *query.Builder
}

func New(db pg.Database) *Repository {
	return &Repository{
		db:      db,
		builder: query.Products(),
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.Price, &p.Stock,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Find shares the listing query builder with the order repo.
func (r *Repository) Find(ctx context.Context, f query.Filter) ([]domain.Product, int, error) {
	compiled, err := r.builder.Compile(f)
	if err != nil {
		return nil, 0, err
	}

	countSQL, countArgs := compiled.CountTail()
	var total int
	err = r.db.QueryRow(ctx, "SELECT COUNT(*) FROM products "+countSQL, countArgs...).Scan(&total)
	if err != nil {
		zap.L().Error("can't count products", zap.Error(err))
		return nil, 0, err
	}

	tail, args := compiled.Tail()
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM products %s", productColumns, tail), args...)
	if err != nil {
		zap.L().Error("can't get products", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			zap.L().Error("can't scan product row", zap.Error(err))
			return nil, 0, err
		}
		products = append(products, *p)
	}
	return products, total, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns), id)
	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find product", zap.Error(err))
		return nil, err
	}
	return product, nil
}
