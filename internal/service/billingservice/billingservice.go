package billingservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/pg"
)

//go:generate mockgen -source=billingservice.go -destination=billingservice_mock.go -package=billingservice

type LedgerRepo interface {
	GetAccount(ctx context.Context, userID string) (*domain.LedgerAccount, error)
	GetAccountForUpdate(ctx context.Context, userID string) (*domain.LedgerAccount, error)
	UpdateBalance(ctx context.Context, userID string, balance decimal.Decimal) error
}

type TransactionRepo interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string, txType domain.TransactionType, limit int) ([]domain.Transaction, error)
}

const defaultTransactionLimit = 50

type Service struct {
	ledgerRepo      LedgerRepo
	transactionRepo TransactionRepo
	txManager       pg.TXManager
}

func New(ledgerRepo LedgerRepo, transactionRepo TransactionRepo, txManager pg.TXManager) *Service {
	return &Service{
		ledgerRepo:      ledgerRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
	}
}

func (s *Service) GetBalance(ctx context.Context, userID string) (*domain.LedgerAccount, error) {
	account, err := s.ledgerRepo.GetAccount(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID string, txType domain.TransactionType, limit int) ([]domain.Transaction, error) {
	if txType != "" && !txType.Valid() {
		verr := domain.NewValidationError()
		verr.Add("type", "must be topup or withdraw")
		return nil, verr
	}
	if limit <= 0 || limit > defaultTransactionLimit {
		limit = defaultTransactionLimit
	}
	txs, err := s.transactionRepo.ListByUser(ctx, userID, txType, limit)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return txs, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		verr := domain.NewValidationError()
		verr.Add("amount", "must be a positive number")
		return verr
	}
	return nil
}

// TopUp credits the account and appends a completed ledger entry. The read,
// the balance write, and the append happen in one serializable transaction.
func (s *Service) TopUp(ctx context.Context, userID string, amount decimal.Decimal, method, reference string) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.ledgerRepo.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}

		if err := s.ledgerRepo.UpdateBalance(ctx, userID, account.Balance.Add(amount)); err != nil {
			return err
		}

		_, err = s.transactionRepo.Create(ctx, &domain.Transaction{
			ID:        uuid.NewString(),
			UserID:    userID,
			Type:      domain.TransactionTopUp,
			Amount:    amount,
			Status:    domain.TransactionCompleted,
			Method:    method,
			Reference: reference,
			CreatedAt: time.Now(),
		})
		return err
	})
	if err != nil {
		zap.L().Error("top-up failed", zap.String("userID", userID), zap.Error(err))
		return err
	}

	zap.L().Info("balance topped up",
		zap.String("userID", userID), zap.String("amount", amount.String()))
	return nil
}

// Withdraw debits the account when funds suffice and appends a pending ledger
// entry awaiting manual confirmation downstream. Two concurrent withdrawals
// cannot both pass the funds check: the account row is locked for the
// transaction.
func (s *Service) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, method, accountInfo string) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.ledgerRepo.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}
		if account.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		if err := s.ledgerRepo.UpdateBalance(ctx, userID, account.Balance.Sub(amount)); err != nil {
			return err
		}

		_, err = s.transactionRepo.Create(ctx, &domain.Transaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Type:        domain.TransactionWithdraw,
			Amount:      amount,
			Status:      domain.TransactionPending,
			Method:      method,
			AccountInfo: accountInfo,
			CreatedAt:   time.Now(),
		})
		return err
	})
	if err != nil {
		if err != domain.ErrInsufficientFunds {
			zap.L().Error("withdraw failed", zap.String("userID", userID), zap.Error(err))
		}
		return err
	}

	zap.L().Info("withdrawal requested",
		zap.String("userID", userID), zap.String("amount", amount.String()))
	return nil
}
