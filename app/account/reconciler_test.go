package account

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"tretabank/errors"
	sqlstore "tretabank/eventing/store/sql"
	"tretabank/readmodel"
	"tretabank/storage/database"
	basicdb "tretabank/storage/database/basic"
)

func TestReconcile_CleanProjection(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := setupService(t)

	created, err := svc.CreateAccount(ctx, "Alice", "12345678900")
	require.NoError(t, err)

	// 空流：投影余额0即为权威状态
	repaired, err := svc.Reconcile(ctx, created.Number)
	require.NoError(t, err)
	assert.False(t, repaired)

	_, err = svc.Deposit(ctx, created.Number, "100.00", "BRL")
	require.NoError(t, err)

	repaired, err = svc.Reconcile(ctx, created.Number)
	require.NoError(t, err)
	assert.False(t, repaired)
}

func TestReconcile_RepairsDivergedProjection(t *testing.T) {
	ctx := context.Background()
	svc, _, accounts, _ := setupService(t)

	created, err := svc.CreateAccount(ctx, "Alice", "12345678900")
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, created.Number, "100.00", "BRL")
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, created.Number, "40.00", "BRL")
	require.NoError(t, err)

	// 人为制造投影偏离
	record, err := accounts.FindByNumber(ctx, created.Number)
	require.NoError(t, err)
	record.Balance = decimal.RequireFromString("999.99")
	require.NoError(t, accounts.Update(ctx, record))

	repaired, err := svc.Reconcile(ctx, created.Number)
	require.NoError(t, err)
	assert.True(t, repaired)

	fixed, err := svc.FindByNumber(ctx, created.Number)
	require.NoError(t, err)
	assert.True(t, fixed.Balance.Equal(decimal.RequireFromString("60.00")))

	// 修复后再对账无事可做
	repaired, err = svc.Reconcile(ctx, created.Number)
	require.NoError(t, err)
	assert.False(t, repaired)
}

// 使用SQL事件存储对账：回放读到的载荷是未解码的原始JSON
func TestReconcile_SQLEventStore(t *testing.T) {
	ctx := context.Background()
	// MaxOpenConns=1：内存sqlite按连接隔离，连接池必须收敛到单连接
	db, err := basicdb.New(database.DBConfig{Driver: "sqlite", Database: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	events := sqlstore.NewSQLEventStore(db, "")
	require.NoError(t, events.Init(ctx))
	accounts := readmodel.NewSQLAccountRepository(db, "")
	require.NoError(t, accounts.Init(ctx))

	svc, err := NewService(Config{EventStore: events, Accounts: accounts})
	require.NoError(t, err)

	created, err := svc.CreateAccount(ctx, "Alice", "12345678900")
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, created.Number, "100.00", "BRL")
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, created.Number, "40.00", "BRL")
	require.NoError(t, err)

	record, err := accounts.FindByNumber(ctx, created.Number)
	require.NoError(t, err)
	record.Balance = decimal.RequireFromString("0.01")
	require.NoError(t, accounts.Update(ctx, record))

	repaired, err := svc.Reconcile(ctx, created.Number)
	require.NoError(t, err)
	assert.True(t, repaired)

	fixed, err := svc.FindByNumber(ctx, created.Number)
	require.NoError(t, err)
	assert.True(t, fixed.Balance.Equal(decimal.RequireFromString("60.00")))
}

func TestReconcile_UnknownAccount(t *testing.T) {
	svc, _, _, _ := setupService(t)

	_, err := svc.Reconcile(context.Background(), "999")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
