package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBankAccount(t *testing.T) {
	account := NewBankAccount("Alice", "111")

	assert.NotEmpty(t, account.ID())
	assert.NotEmpty(t, account.Number())
	assert.Equal(t, Owner{Name: "Alice", Document: "111"}, account.Owner())
	assert.True(t, account.Balance().Money().Amount().IsZero())
	assert.Equal(t, DefaultCurrency, account.Balance().Money().Currency())
	assert.Equal(t, uint64(0), account.StreamPosition())
	assert.Empty(t, account.UncommittedEvents())

	// 标识与账户号对每个账户唯一
	other := NewBankAccount("Bob", "222")
	assert.NotEqual(t, account.ID(), other.ID())
	assert.NotEqual(t, account.Number(), other.Number())
}

func TestBankAccount_Deposit(t *testing.T) {
	account := NewBankAccount("Alice", "111")

	require.NoError(t, account.Deposit(mustMoney(t, "100.00", "BRL")))
	assert.Equal(t, "100.00 BRL", account.Balance().Money().String())

	events := account.UncommittedEvents()
	require.Len(t, events, 1)
	deposit, ok := events[0].(*DepositMadeEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeDepositMade, deposit.EventType())
	assert.Equal(t, account.ID(), deposit.AccountID)
	assert.True(t, deposit.Amount.Equals(mustMoney(t, "100.00", "BRL")))
	assert.True(t, deposit.Balance.Equal(mustMoney(t, "100.00", "BRL").Amount()))
}

func TestBankAccount_Deposit_InvalidAmount(t *testing.T) {
	account := NewBankAccount("Alice", "111")

	err := account.Deposit(ZeroMoney("BRL"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// 校验失败无副作用：余额不变、无暂存事件
	assert.True(t, account.Balance().Money().Amount().IsZero())
	assert.Empty(t, account.UncommittedEvents())
}

func TestBankAccount_Deposit_CurrencyMismatch(t *testing.T) {
	account := NewBankAccount("Alice", "111")

	err := account.Deposit(mustMoney(t, "10.00", "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	assert.Empty(t, account.UncommittedEvents())
}

func TestBankAccount_Withdraw(t *testing.T) {
	account := NewBankAccount("Alice", "111")
	require.NoError(t, account.Deposit(mustMoney(t, "100.00", "BRL")))
	account.Commit()

	require.NoError(t, account.Withdraw(mustMoney(t, "40.00", "BRL")))
	assert.Equal(t, "60.00 BRL", account.Balance().Money().String())

	events := account.UncommittedEvents()
	require.Len(t, events, 1)
	withdraw, ok := events[0].(*WithdrawMadeEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeWithdrawMade, withdraw.EventType())
	assert.True(t, withdraw.Balance.Equal(mustMoney(t, "60.00", "BRL").Amount()))
}

func TestBankAccount_Withdraw_Failures(t *testing.T) {
	account := NewBankAccount("Alice", "111")
	require.NoError(t, account.Deposit(mustMoney(t, "100.00", "BRL")))
	account.Commit()

	err := account.Withdraw(mustMoney(t, "150.00", "BRL"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	err = account.Withdraw(ZeroMoney("BRL"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	err = account.Withdraw(mustMoney(t, "10.00", "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	// 任何失败都不得改变余额或暂存事件
	assert.Equal(t, "100.00 BRL", account.Balance().Money().String())
	assert.Empty(t, account.UncommittedEvents())
}

func TestBankAccount_Commit(t *testing.T) {
	account := NewBankAccount("Alice", "111")

	// 空提交是no-op
	assert.Empty(t, account.Commit())

	require.NoError(t, account.Deposit(mustMoney(t, "10.00", "BRL")))
	require.NoError(t, account.Deposit(mustMoney(t, "20.00", "BRL")))

	events := account.Commit()
	assert.Len(t, events, 2)
	// 提交后缓冲清空
	assert.Empty(t, account.UncommittedEvents())
	assert.Empty(t, account.Commit())
}

func TestBankAccount_StreamPosition(t *testing.T) {
	account := NewBankAccount("Alice", "111")
	account.SetStreamPosition(7)
	assert.Equal(t, uint64(7), account.StreamPosition())

	// 领域操作不推进流位置，只有事件日志接受追加后才算数
	require.NoError(t, account.Deposit(mustMoney(t, "10.00", "BRL")))
	assert.Equal(t, uint64(7), account.StreamPosition())
}

func TestReconstituteBankAccount(t *testing.T) {
	balance := NewBalance(mustMoney(t, "55.00", "BRL"))
	account := ReconstituteBankAccount("acc-1", "42", Owner{Name: "Alice", Document: "111"}, balance)

	assert.Equal(t, "acc-1", account.ID())
	assert.Equal(t, "42", account.Number())
	assert.True(t, account.Balance().Equals(balance))
	assert.Equal(t, uint64(0), account.StreamPosition())
	assert.Empty(t, account.UncommittedEvents())
}
