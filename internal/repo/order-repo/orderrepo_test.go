package orderrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/pg"
	"github.com/ecoprint/b2b-manager/internal/query"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB, mockTxManager
}

func orderRowColumns() []string {
	return []string{
		"id", "customer_name", "customer_email", "customer_phone", "customer_address",
		"items", "status", "payment_status", "payment_method", "total_amount", "notes",
		"created_by", "updated_by", "created_at", "updated_at",
	}
}

func addOrderRow(rows *pgxmock.Rows, order *domain.Order) *pgxmock.Rows {
	return rows.AddRow(
		order.ID, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		order.Customer.Address, order.Items, order.Status, order.PaymentStatus,
		order.PaymentMethod, order.TotalAmount, order.Notes,
		order.CreatedBy, order.UpdatedBy, order.CreatedAt, order.UpdatedAt,
	)
}

func sampleOrder(now time.Time) *domain.Order {
	return &domain.Order{
		ID: "order-1",
		Customer: domain.Customer{
			Name:    "Acme GmbH",
			Email:   "billing@acme.example",
			Phone:   "+49 30 1234567",
			Address: "Hauptstr. 1, Berlin",
		},
		Items: []domain.LineItem{
			{Name: "Business cards", Quantity: 2, Price: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(20)},
		},
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: "invoice",
		TotalAmount:   decimal.NewFromInt(20),
		CreatedBy:     "user-1",
		UpdatedBy:     "user-1",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestRepository_Find(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	order := sampleOrder(now)

	tests := []struct {
		name      string
		filter    query.Filter
		mockSetup func()
		expectErr bool
		total     int
		count     int
	}{
		{
			name:   "one page with filtered total",
			filter: query.Filter{Status: "pending"},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE status = $1")).
					WithArgs("pending").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
				mock.ExpectQuery("SELECT .+ FROM orders WHERE status = .+ ORDER BY created_at DESC, id DESC LIMIT .+ OFFSET .+").
					WithArgs("pending", query.DefaultLimit, 0).
					WillReturnRows(addOrderRow(pgxmock.NewRows(orderRowColumns()), order))
			},
			total: 7,
			count: 1,
		},
		{
			name:      "invalid filter short-circuits",
			filter:    query.Filter{Status: "shipped"},
			mockSetup: func() {},
			expectErr: true,
		},
		{
			name:   "count query error",
			filter: query.Filter{Status: "pending"},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE status = $1")).
					WithArgs("pending").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			orders, total, err := repo.Find(context.Background(), tt.filter)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Len(t, orders, tt.count)
			assert.Equal(t, "order-1", orders[0].ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	order := sampleOrder(now)

	tests := []struct {
		name      string
		id        string
		mockSetup func()
		expectErr bool
		result    *domain.Order
	}{
		{
			name: "order exists",
			id:   "order-1",
			mockSetup: func() {
				mock.ExpectQuery("SELECT .+ FROM orders WHERE id = .+").
					WithArgs("order-1").
					WillReturnRows(addOrderRow(pgxmock.NewRows(orderRowColumns()), order))
			},
			result: order,
		},
		{
			name: "order does not exist",
			id:   "missing",
			mockSetup: func() {
				mock.ExpectQuery("SELECT .+ FROM orders WHERE id = .+").
					WithArgs("missing").
					WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
		{
			name: "database error",
			id:   "order-1",
			mockSetup: func() {
				mock.ExpectQuery("SELECT .+ FROM orders WHERE id = .+").
					WithArgs("order-1").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), tt.id)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Save(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	order := sampleOrder(now)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "saved",
			mockSetup: func() {
				mock.ExpectExec("INSERT INTO orders").
					WithArgs(
						order.ID, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
						order.Customer.Address, order.Items, order.Status, order.PaymentStatus,
						order.PaymentMethod, order.TotalAmount, order.Notes,
						order.CreatedBy, order.UpdatedBy, order.CreatedAt, order.UpdatedAt,
					).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "database error",
			mockSetup: func() {
				mock.ExpectExec("INSERT INTO orders").
					WithArgs(
						order.ID, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
						order.Customer.Address, order.Items, order.Status, order.PaymentStatus,
						order.PaymentMethod, order.TotalAmount, order.Notes,
						order.CreatedBy, order.UpdatedBy, order.CreatedAt, order.UpdatedAt,
					).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Save(context.Background(), order)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Update(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	order := sampleOrder(now)

	updateArgs := []any{
		order.Customer.Name, order.Customer.Email, order.Customer.Phone, order.Customer.Address,
		order.Items, order.Status, order.PaymentStatus, order.PaymentMethod,
		order.TotalAmount, order.Notes, order.UpdatedBy, order.UpdatedAt,
		order.ID,
	}

	tests := []struct {
		name      string
		mockSetup func()
		wantErr   error
	}{
		{
			name: "updated",
			mockSetup: func() {
				mock.ExpectExec("UPDATE orders").
					WithArgs(updateArgs...).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "no row matched",
			mockSetup: func() {
				mock.ExpectExec("UPDATE orders").
					WithArgs(updateArgs...).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Update(context.Background(), order)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	repo, mock, _ := NewMock(t)

	tests := []struct {
		name      string
		mockSetup func()
		deleted   bool
		expectErr bool
	}{
		{
			name: "deleted",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = $1")).
					WithArgs("order-1").
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
			deleted: true,
		},
		{
			name: "nothing to delete",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = $1")).
					WithArgs("order-1").
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			deleted: false,
		},
		{
			name: "database error",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = $1")).
					WithArgs("order-1").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			deleted, err := repo.Delete(context.Background(), "order-1")
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.deleted, deleted)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_BulkUpdate(t *testing.T) {
	repo, mock, txManager := NewMock(t)
	processing := domain.StatusProcessing
	ids := []string{"order-1", "order-2"}

	t.Run("status patch batched in one transaction", func(t *testing.T) {
		txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
				return fn(ctx)
			})

		batch := mock.ExpectBatch()
		for _, id := range ids {
			batch.ExpectExec("UPDATE orders SET status = .+").
				WithArgs(processing, "admin-1", id).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		}

		affected, err := repo.BulkUpdate(context.Background(), ids, Patch{Status: &processing}, "admin-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("combined status and notes patch keeps both assignments", func(t *testing.T) {
		txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
				return fn(ctx)
			})

		notes := "expedite shipping"
		batch := mock.ExpectBatch()
		for _, id := range ids {
			batch.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1, notes = $2, updated_by = $3, updated_at = now() WHERE id = $4")).
				WithArgs(processing, notes, "admin-1", id).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		}

		affected, err := repo.BulkUpdate(context.Background(), ids, Patch{Status: &processing, Notes: &notes}, "admin-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		_, err := repo.BulkUpdate(context.Background(), ids, Patch{}, "admin-1")
		assert.Error(t, err)
	})

	t.Run("transaction error surfaces", func(t *testing.T) {
		txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(errors.New("tx aborted"))

		_, err := repo.BulkUpdate(context.Background(), ids, Patch{Status: &processing}, "admin-1")
		assert.Error(t, err)
	})
}

func TestRepository_BulkDelete(t *testing.T) {
	repo, mock, txManager := NewMock(t)
	ids := []string{"order-1", "order-2", "order-3"}

	t.Run("deletes all ids in one statement", func(t *testing.T) {
		txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
				return fn(ctx)
			})
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = ANY($1)")).
			WithArgs(ids).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))

		affected, err := repo.BulkDelete(context.Background(), ids)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transaction error surfaces", func(t *testing.T) {
		txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(errors.New("tx aborted"))

		_, err := repo.BulkDelete(context.Background(), ids)
		assert.Error(t, err)
	})
}
