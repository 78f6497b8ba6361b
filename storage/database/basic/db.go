// Package basic 基于 database/sql 的最小 IDatabase 实现
package basic

import (
	"context"
	"database/sql"
	"time"

	core "tretabank/storage/database"
)

// DB 基于 database/sql 的最小实现，满足 core.IDatabase 抽象
type DB struct {
	db     *sql.DB
	driver string
}

// New 根据 core.DBConfig 创建基础数据库实例
//
// 仅做最小封装：调用方必须确保所配置的 Driver 已通过空导入注册
// （例如在上层显式 `_ "modernc.org/sqlite"`）。
func New(config core.DBConfig) (*DB, error) {
	driver := config.Driver
	if driver == "" {
		driver = "sqlite"
	}

	db, err := sql.Open(driver, config.Database)
	if err != nil {
		return nil, err
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(config.ConnMaxLifetime) * time.Second)
	}

	// 基础可用性检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, driver: driver}, nil
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (core.IRows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) core.IRow {
	return &Row{row: d.db.QueryRowContext(ctx, query, args...)}
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, query, args...)
}

func (d *DB) Begin(ctx context.Context) (core.ITransaction, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

func (d *DB) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }
func (d *DB) Close() error                   { return d.db.Close() }

// Tx 事务包装，在事务内复用 IDatabase 操作
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (core.IRows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) core.IRow {
	return &Row{row: t.tx.QueryRowContext(ctx, query, args...)}
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

// Begin 事务内不支持嵌套事务，返回自身
func (t *Tx) Begin(ctx context.Context) (core.ITransaction, error) {
	return t, nil
}

func (t *Tx) Ping(ctx context.Context) error { return nil }
func (t *Tx) Close() error                   { return nil }

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

// 确认实现接口
var (
	_ core.IDatabase    = (*DB)(nil)
	_ core.ITransaction = (*Tx)(nil)
)
