package billingservice

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockLedgerRepo, *MockTransactionRepo, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	ledgerRepo := NewMockLedgerRepo(ctrl)
	transactionRepo := NewMockTransactionRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	service := New(ledgerRepo, transactionRepo, txManager)
	defer ctrl.Finish()
	return service, ledgerRepo, transactionRepo, txManager
}

// passThroughTx runs the transactional closure directly, so the repo
// expectations inside it are exercised.
func passThroughTx(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

// decimalEq matches on value, not representation: equal decimals can carry
// different exponents internally.
type decimalMatcher struct{ want decimal.Decimal }

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string { return "decimal " + m.want.String() }

func decimalEq(d decimal.Decimal) gomock.Matcher { return decimalMatcher{want: d} }

func TestGetBalance(t *testing.T) {
	tests := []struct {
		name            string
		prepareMock     func(ledgerRepo *MockLedgerRepo)
		expectedBalance decimal.Decimal
		expectedError   error
	}{
		{
			name: "returns account",
			prepareMock: func(ledgerRepo *MockLedgerRepo) {
				ledgerRepo.EXPECT().GetAccount(gomock.Any(), "user-1").Return(&domain.LedgerAccount{
					UserID:   "user-1",
					Balance:  decimal.NewFromInt(150),
					Currency: "EUR",
				}, nil)
			},
			expectedBalance: decimal.NewFromInt(150),
		},
		{
			name: "unknown user",
			prepareMock: func(ledgerRepo *MockLedgerRepo) {
				ledgerRepo.EXPECT().GetAccount(gomock.Any(), "user-1").Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "repo error",
			prepareMock: func(ledgerRepo *MockLedgerRepo) {
				ledgerRepo.EXPECT().GetAccount(gomock.Any(), "user-1").Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ledgerRepo, _, _ := NewMock(t)
			tt.prepareMock(ledgerRepo)

			account, err := service.GetBalance(context.Background(), "user-1")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.True(t, account.Balance.Equal(tt.expectedBalance))
			}
		})
	}
}

func TestListTransactions(t *testing.T) {
	tests := []struct {
		name          string
		txType        domain.TransactionType
		limit         int
		prepareMock   func(transactionRepo *MockTransactionRepo)
		expectedError error
	}{
		{
			name:   "default limit applied",
			txType: "",
			limit:  0,
			prepareMock: func(transactionRepo *MockTransactionRepo) {
				transactionRepo.EXPECT().ListByUser(gomock.Any(), "user-1", domain.TransactionType(""), defaultTransactionLimit).
					Return([]domain.Transaction{{ID: "tx-1"}}, nil)
			},
		},
		{
			name:   "oversized limit clamped",
			txType: domain.TransactionTopUp,
			limit:  500,
			prepareMock: func(transactionRepo *MockTransactionRepo) {
				transactionRepo.EXPECT().ListByUser(gomock.Any(), "user-1", domain.TransactionTopUp, defaultTransactionLimit).
					Return(nil, nil)
			},
		},
		{
			name:   "explicit limit kept",
			txType: domain.TransactionWithdraw,
			limit:  10,
			prepareMock: func(transactionRepo *MockTransactionRepo) {
				transactionRepo.EXPECT().ListByUser(gomock.Any(), "user-1", domain.TransactionWithdraw, 10).
					Return(nil, nil)
			},
		},
		{
			name:          "unknown type rejected",
			txType:        domain.TransactionType("refund"),
			expectedError: errors.New("validation failed: type: must be topup or withdraw"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, transactionRepo, _ := NewMock(t)
			if tt.prepareMock != nil {
				tt.prepareMock(transactionRepo)
			}

			_, err := service.ListTransactions(context.Background(), "user-1", tt.txType, tt.limit)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTopUp(t *testing.T) {
	tests := []struct {
		name          string
		amount        decimal.Decimal
		prepareMock   func(ledgerRepo *MockLedgerRepo, transactionRepo *MockTransactionRepo, txManager *pg.MockTXManager)
		expectedError error
	}{
		{
			name:   "credits balance and appends completed transaction",
			amount: decimal.NewFromInt(100),
			prepareMock: func(ledgerRepo *MockLedgerRepo, transactionRepo *MockTransactionRepo, txManager *pg.MockTXManager) {
				passThroughTx(txManager)
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), "user-1").
					Return(&domain.LedgerAccount{UserID: "user-1", Balance: decimal.NewFromInt(50)}, nil)
				ledgerRepo.EXPECT().UpdateBalance(gomock.Any(), "user-1", decimalEq(decimal.NewFromInt(150))).Return(nil)
				transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
						assert.Equal(t, domain.TransactionTopUp, tx.Type)
						assert.Equal(t, domain.TransactionCompleted, tx.Status)
						assert.True(t, tx.Amount.Equal(decimal.NewFromInt(100)))
						return tx, nil
					})
			},
		},
		{
			name:          "zero amount rejected",
			amount:        decimal.Zero,
			expectedError: errors.New("validation failed: amount: must be a positive number"),
		},
		{
			name:          "negative amount rejected",
			amount:        decimal.NewFromInt(-5),
			expectedError: errors.New("validation failed: amount: must be a positive number"),
		},
		{
			name:   "unknown user",
			amount: decimal.NewFromInt(100),
			prepareMock: func(ledgerRepo *MockLedgerRepo, transactionRepo *MockTransactionRepo, txManager *pg.MockTXManager) {
				passThroughTx(txManager)
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), "user-1").Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:   "balance write failure aborts the transaction",
			amount: decimal.NewFromInt(100),
			prepareMock: func(ledgerRepo *MockLedgerRepo, transactionRepo *MockTransactionRepo, txManager *pg.MockTXManager) {
				passThroughTx(txManager)
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), "user-1").
					Return(&domain.LedgerAccount{UserID: "user-1", Balance: decimal.NewFromInt(50)}, nil)
				ledgerRepo.EXPECT().UpdateBalance(gomock.Any(), "user-1", decimalEq(decimal.NewFromInt(150))).
					Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ledgerRepo, transactionRepo, txManager := NewMock(t)
			if tt.prepareMock != nil {
				tt.prepareMock(ledgerRepo, transactionRepo, txManager)
			}

			err := service.TopUp(context.Background(), "user-1", tt.amount, "bank_transfer", "INV-42")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name          string
		amount        decimal.Decimal
		prepareMock   func(ledgerRepo *MockLedgerRepo, transactionRepo *MockTransactionRepo, txManager *pg.MockTXManager)
		expectedError error
	}{
		{
			name:   "debits balance and appends pending transaction",
			amount: decimal.NewFromInt(30),
			prepareMock: func(ledgerRepo *MockLedgerRepo, transactionRepo *MockTransactionRepo, txManager *pg.MockTXManager) {
				passThroughTx(txManager)
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), "user-1").
					Return(&domain.LedgerAccount{UserID: "user-1", Balance: decimal.NewFromInt(100)}, nil)
				ledgerRepo.EXPECT().UpdateBalance(gomock.Any(), "user-1", decimalEq(decimal.NewFromInt(70))).Return(nil)
				transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
						assert.Equal(t, domain.TransactionWithdraw, tx.Type)
						assert.Equal(t, domain.TransactionPending, tx.Status)
						assert.Equal(t, "DE89370400440532013000", tx.AccountInfo)
						return tx, nil
					})
			},
		},
		{
			name:   "exact balance is allowed",
			amount: decimal.NewFromInt(100),
			prepareMock: func(ledgerRepo *MockLedgerRepo, transactionRepo *MockTransactionRepo, txManager *pg.MockTXManager) {
				passThroughTx(txManager)
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), "user-1").
					Return(&domain.LedgerAccount{UserID: "user-1", Balance: decimal.NewFromInt(100)}, nil)
				ledgerRepo.EXPECT().UpdateBalance(gomock.Any(), "user-1", decimalEq(decimal.Zero)).Return(nil)
				transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
						return tx, nil
					})
			},
		},
		{
			name:   "insufficient funds leaves no writes",
			amount: decimal.NewFromInt(200),
			prepareMock: func(ledgerRepo *MockLedgerRepo, transactionRepo *MockTransactionRepo, txManager *pg.MockTXManager) {
				passThroughTx(txManager)
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), "user-1").
					Return(&domain.LedgerAccount{UserID: "user-1", Balance: decimal.NewFromInt(100)}, nil)
				// No UpdateBalance and no Create expectation: the controller
				// fails the test if either is called.
			},
			expectedError: domain.ErrInsufficientFunds,
		},
		{
			name:          "non-positive amount rejected",
			amount:        decimal.NewFromInt(-1),
			expectedError: errors.New("validation failed: amount: must be a positive number"),
		},
		{
			name:   "unknown user",
			amount: decimal.NewFromInt(10),
			prepareMock: func(ledgerRepo *MockLedgerRepo, transactionRepo *MockTransactionRepo, txManager *pg.MockTXManager) {
				passThroughTx(txManager)
				ledgerRepo.EXPECT().GetAccountForUpdate(gomock.Any(), "user-1").Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ledgerRepo, transactionRepo, txManager := NewMock(t)
			if tt.prepareMock != nil {
				tt.prepareMock(ledgerRepo, transactionRepo, txManager)
			}

			err := service.Withdraw(context.Background(), "user-1", tt.amount, "bank_transfer", "DE89370400440532013000")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
