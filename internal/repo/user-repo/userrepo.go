package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	sql := `
        SELECT id, email, name, password_hash, role, balance, currency,
               credit_score, credit_limit, payment_terms, created_at
        FROM users
        WHERE email = $1
    `
	row := r.db.QueryRow(ctx, sql, email)
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role,
		&user.Balance, &user.Currency, &user.CreditScore, &user.CreditLimit,
		&user.PaymentTerms, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	sql := `
        INSERT INTO users (id, email, name, password_hash, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.Exec(ctx, sql,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		zap.L().Error("can't create user", zap.Error(err))
		return nil, err
	}
	return user, nil
}
