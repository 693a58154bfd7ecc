package composables

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/laurel-hq/laurel/pkg/constants"
	"github.com/laurel-hq/laurel/pkg/repo"
)

var (
	ErrNoTx   = errors.New("no transaction found in context")
	ErrNoPool = errors.New("no database pool found in context")
)

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, constants.TxKey, tx)
}

// UseTx returns the transaction stored in ctx, falling back to the pool.
func UseTx(ctx context.Context) (repo.Tx, error) {
	if tx, ok := ctx.Value(constants.TxKey).(repo.Tx); ok && tx != nil {
		return tx, nil
	}
	return UsePool(ctx)
}

func WithPool(ctx context.Context, pool *pgxpool.Pool) context.Context {
	return context.WithValue(ctx, constants.PoolKey, pool)
}

func UsePool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, ok := ctx.Value(constants.PoolKey).(*pgxpool.Pool)
	if !ok || pool == nil {
		return nil, ErrNoPool
	}
	return pool, nil
}

// TxBeginner starts transactions with explicit options. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// ReadSnapshot is for multi-statement reads (count + page) that must agree with each other.
var ReadSnapshot = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// WithTxBeginner stores b where InTx looks for the pool.
func WithTxBeginner(ctx context.Context, b TxBeginner) context.Context {
	return context.WithValue(ctx, constants.PoolKey, b)
}

func useTxBeginner(ctx context.Context) (TxBeginner, error) {
	switch v := ctx.Value(constants.PoolKey).(type) {
	case *pgxpool.Pool:
		if v != nil {
			return v, nil
		}
	case TxBeginner:
		return v, nil
	}
	return nil, ErrNoPool
}

// InTx runs fn inside a transaction. An already open transaction in ctx is reused and
// left for its owner to commit.
func InTx(ctx context.Context, fn func(context.Context) error) error {
	return InTxWith(ctx, pgx.TxOptions{}, fn)
}

// InTxWith is InTx with explicit options. opts only apply when a new transaction is
// started; a reused one keeps the options its owner chose.
func InTxWith(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) error {
	if existing, ok := ctx.Value(constants.TxKey).(pgx.Tx); ok && existing != nil {
		return fn(ctx)
	}

	beginner, err := useTxBeginner(ctx)
	if err != nil {
		return err
	}
	tx, err := beginner.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rErr := tx.Rollback(ctx); rErr != nil {
			return errors.Join(err, rErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

func InTxResult[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	return InTxResultWith(ctx, pgx.TxOptions{}, fn)
}

func InTxResultWith[T any](ctx context.Context, opts pgx.TxOptions, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := InTxWith(ctx, opts, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = fn(txCtx)
		return innerErr
	})
	return out, err
}

// PageInSnapshot counts and fetches one page inside a single ReadSnapshot transaction,
// so total and data describe the same rows.
func PageInSnapshot[T any](
	ctx context.Context,
	req repo.PageRequest,
	count func(ctx context.Context) (int64, error),
	list func(ctx context.Context, offset, limit int) ([]T, error),
) (*repo.Page[T], error) {
	return InTxResultWith(ctx, ReadSnapshot, func(txCtx context.Context) (*repo.Page[T], error) {
		total, err := count(txCtx)
		if err != nil {
			return nil, err
		}
		return repo.Paginate(req, total, func(offset, limit int) ([]T, error) {
			return list(txCtx, offset, limit)
		})
	})
}
