package transactionrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/pg"
)

// Transactions are append-only ledger entries; there is no update path here.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	sql := `
		INSERT INTO transactions (id, user_id, type, amount, status, method, reference, account_info, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, sql,
		tx.ID, tx.UserID, tx.Type, tx.Amount, tx.Status,
		tx.Method, tx.Reference, tx.AccountInfo, tx.CreatedAt,
	)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return tx, nil
}

// ListByUser returns transactions newest first, optionally filtered by type.
func (r *Repository) ListByUser(ctx context.Context, userID string, txType domain.TransactionType, limit int) ([]domain.Transaction, error) {
	sql := `
        SELECT id, user_id, type, amount, status, method, reference, account_info, created_at
        FROM transactions
        WHERE user_id = $1 AND ($2 = '' OR type = $2)
        ORDER BY created_at DESC
        LIMIT $3
    `
	rows, err := r.db.Query(ctx, sql, userID, string(txType), limit)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Status,
			&tx.Method, &tx.Reference, &tx.AccountInfo, &tx.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan transaction row", zap.Error(err))
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
