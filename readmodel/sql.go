package readmodel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tretabank/domain"
	"tretabank/logging"
	"tretabank/storage/database"
)

// DefaultAccountTableName 默认账户投影表名
const DefaultAccountTableName = "bank_accounts"

// AccountSchema 返回账户投影表建表语句
func AccountSchema(tableName string) string {
	return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id             TEXT PRIMARY KEY,
            number         TEXT NOT NULL UNIQUE,
            owner_name     TEXT NOT NULL,
            owner_document TEXT NOT NULL,
            balance        TEXT NOT NULL,
            currency       TEXT NOT NULL,
            updated_at     DATETIME NOT NULL
        );
    `, tableName)
}

// SQLAccountRepository 基于通用SQL接口的读模型仓储
type SQLAccountRepository struct {
	db        database.IDatabase
	tableName string
	logger    logging.Logger
}

// NewSQLAccountRepository 创建SQL读模型仓储
func NewSQLAccountRepository(db database.IDatabase, tableName string) *SQLAccountRepository {
	if tableName == "" {
		tableName = DefaultAccountTableName
	}
	return &SQLAccountRepository{
		db:        db,
		tableName: tableName,
		logger:    logging.ComponentLogger("readmodel.sql"),
	}
}

// Init 初始化（建表）
func (r *SQLAccountRepository) Init(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, AccountSchema(r.tableName)); err != nil {
		return domain.NewRepositoryError("REPOSITORY_FAILED", "create account table failed", err)
	}
	return nil
}

// FindByNumber 实现 IAccountReadRepository
func (r *SQLAccountRepository) FindByNumber(ctx context.Context, number string) (*AccountRecord, error) {
	query := fmt.Sprintf("SELECT id, number, owner_name, owner_document, balance, currency, updated_at FROM %s WHERE number = ?", r.tableName)
	row := r.db.QueryRow(ctx, query, number)

	var (
		record     AccountRecord
		balanceStr string
	)
	err := row.Scan(&record.ID, &record.Number, &record.OwnerName, &record.OwnerDocument, &balanceStr, &record.Currency, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, domain.NewRepositoryError("REPOSITORY_FAILED", "query account failed", err)
	}

	record.Balance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, domain.NewRepositoryError("REPOSITORY_FAILED", "decode balance failed", err)
	}
	return &record, nil
}

// Save 实现 IAccountReadRepository
func (r *SQLAccountRepository) Save(ctx context.Context, record *AccountRecord) error {
	record.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf("INSERT INTO %s (id, number, owner_name, owner_document, balance, currency, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)", r.tableName)
	_, err := r.db.Exec(ctx, query,
		record.ID, record.Number, record.OwnerName, record.OwnerDocument,
		record.Balance.String(), record.Currency, record.UpdatedAt)
	if err != nil {
		return domain.NewRepositoryError("REPOSITORY_FAILED", "insert account failed", err)
	}
	r.logger.Debug(ctx, "account projection saved", logging.String("number", record.Number))
	return nil
}

// Update 实现 IAccountReadRepository（最后写入者获胜）
func (r *SQLAccountRepository) Update(ctx context.Context, record *AccountRecord) error {
	record.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf("UPDATE %s SET number = ?, owner_name = ?, owner_document = ?, balance = ?, currency = ?, updated_at = ? WHERE id = ?", r.tableName)
	res, err := r.db.Exec(ctx, query,
		record.Number, record.OwnerName, record.OwnerDocument,
		record.Balance.String(), record.Currency, record.UpdatedAt, record.ID)
	if err != nil {
		return domain.NewRepositoryError("REPOSITORY_FAILED", "update account failed", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrAccountNotFound
	}
	r.logger.Debug(ctx, "account projection updated", logging.String("number", record.Number))
	return nil
}

// 确认实现接口
var _ IAccountReadRepository = (*SQLAccountRepository)(nil)
