package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/paiban-dev/shift-scheduler/backend/internal/config"
	"github.com/paiban-dev/shift-scheduler/backend/internal/lifecycle"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// queryer 抽象 *sql.DB 和 *sql.Tx 共有的查询能力，
// 使同一段 SQL 既能在连接池上执行也能在事务内执行
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

// WithinTransaction 实现 lifecycle.Store：在一个数据库事务内执行 fn，
// fn 返回错误时整个事务回滚
func (r *Repository) WithinTransaction(ctx context.Context, fn func(tx lifecycle.TxStore) error) error {
	txCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(txCtx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&txRepository{tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

// txRepository 在一个打开的事务上实现 lifecycle.TxStore
type txRepository struct {
	tx *sql.Tx
}
