package userrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ecoprint/b2b-manager/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()
	return repo, mockDB
}

func TestRepository_FindByEmail(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	columns := []string{"id", "email", "name", "password_hash", "role", "balance", "currency",
		"credit_score", "credit_limit", "payment_terms", "created_at"}

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		found     bool
	}{
		{
			name: "user exists",
			mockSetup: func() {
				rows := pgxmock.NewRows(columns).
					AddRow("user-1", "billing@acme.example", "Acme GmbH", "hash", "customer",
						decimal.NewFromInt(150), "EUR", 80, decimal.NewFromInt(1000), "net30", now)
				mock.ExpectQuery("(?s)SELECT .+ FROM users").
					WithArgs("billing@acme.example").
					WillReturnRows(rows)
			},
			found: true,
		},
		{
			name: "user does not exist",
			mockSetup: func() {
				mock.ExpectQuery("(?s)SELECT .+ FROM users").
					WithArgs("billing@acme.example").
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "database error",
			mockSetup: func() {
				mock.ExpectQuery("(?s)SELECT .+ FROM users").
					WithArgs("billing@acme.example").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			user, err := repo.FindByEmail(context.Background(), "billing@acme.example")
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.found {
				assert.Equal(t, "user-1", user.ID)
				assert.Equal(t, "customer", user.Role)
			} else {
				assert.Nil(t, user)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	user := &domain.User{
		ID:           "user-1",
		Email:        "billing@acme.example",
		Name:         "Acme GmbH",
		PasswordHash: "hash",
		Role:         "customer",
		CreatedAt:    now,
	}

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "created",
			mockSetup: func() {
				mock.ExpectExec("INSERT INTO users").
					WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "database error",
			mockSetup: func() {
				mock.ExpectExec("INSERT INTO users").
					WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.CreatedAt).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			created, err := repo.Create(context.Background(), user)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, user, created)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
