package ledgerrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

const accountColumns = `id, balance, currency, credit_score, credit_limit, payment_terms`

func scanAccount(row pgx.Row) (*domain.LedgerAccount, error) {
	var acc domain.LedgerAccount
	err := row.Scan(&acc.UserID, &acc.Balance, &acc.Currency, &acc.CreditScore,
		&acc.CreditLimit, &acc.PaymentTerms)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *Repository) GetAccount(ctx context.Context, userID string) (*domain.LedgerAccount, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, userID)
	acc, err := scanAccount(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to get ledger account", zap.Error(err))
		return nil, err
	}
	return acc, nil
}

// GetAccountForUpdate locks the account row for the enclosing transaction so
// concurrent balance writes serialize on it.
func (r *Repository) GetAccountForUpdate(ctx context.Context, userID string) (*domain.LedgerAccount, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
	acc, err := scanAccount(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to lock ledger account", zap.Error(err))
		return nil, err
	}
	return acc, nil
}

func (r *Repository) UpdateBalance(ctx context.Context, userID string, balance decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET balance = $1 WHERE id = $2`, balance, userID)
	if err != nil {
		zap.L().Error("failed to update balance", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
