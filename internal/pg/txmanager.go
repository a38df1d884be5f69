package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:generate mockgen -source=txmanager.go -destination=txmanager_mock.go -package=pg

// TXManager runs a closure inside a serializable transaction. Queries issued
// through Database inside the closure join the same transaction via context.
type TXManager interface {
	Begin(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	serializationFailure = "40001"
	txMaxRetries         = 3
	txRetryInterval      = 50 * time.Millisecond
)

type txKey struct{}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

type Manager struct {
	pool *pgxpool.Pool
}

func NewTXManager(pool *pgxpool.Pool) *Manager {
	return &Manager{pool: pool}
}

func (m *Manager) Begin(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= txMaxRetries; attempt++ {
		err = m.run(ctx, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		zap.L().Warn("transaction serialization conflict, retrying",
			zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(txRetryInterval * time.Duration(attempt)):
		}
	}
	return err
}

func (m *Manager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			zap.L().Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit(ctx)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailure
}
