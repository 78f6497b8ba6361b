package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, amount, currency string) Money {
	t.Helper()
	m, err := NewMoneyFromString(amount, currency)
	require.NoError(t, err)
	return m
}

func TestNewMoney_Invariants(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(-1), "BRL")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewMoney(decimal.NewFromInt(10), "")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = NewMoney(decimal.NewFromInt(10), "   ")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	// 0 是合法金额（零余额），是否大于0由聚合层判定
	zero, err := NewMoney(decimal.Zero, "BRL")
	require.NoError(t, err)
	assert.False(t, zero.IsPositive())
}

func TestNewMoneyFromString(t *testing.T) {
	m := mustMoney(t, "100.00", "BRL")
	assert.Equal(t, "100.00 BRL", m.String())

	_, err := NewMoneyFromString("not-a-number", "BRL")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMoney_Add(t *testing.T) {
	a := mustMoney(t, "100.00", "BRL")
	b := mustMoney(t, "20.50", "BRL")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "120.50 BRL", sum.String())

	// 原值不变
	assert.Equal(t, "100.00 BRL", a.String())

	_, err = a.Add(mustMoney(t, "1.00", "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoney_Subtract(t *testing.T) {
	a := mustMoney(t, "100.00", "BRL")

	diff, err := a.Subtract(mustMoney(t, "40.00", "BRL"))
	require.NoError(t, err)
	assert.Equal(t, "60.00 BRL", diff.String())

	_, err = a.Subtract(mustMoney(t, "100.01", "BRL"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = a.Subtract(mustMoney(t, "1.00", "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	// 减到刚好为0是允许的
	zero, err := a.Subtract(mustMoney(t, "100.00", "BRL"))
	require.NoError(t, err)
	assert.True(t, zero.Amount().IsZero())
}

func TestMoney_Equals(t *testing.T) {
	assert.True(t, mustMoney(t, "10.00", "BRL").Equals(mustMoney(t, "10", "BRL")))
	assert.False(t, mustMoney(t, "10.00", "BRL").Equals(mustMoney(t, "10.00", "USD")))
	assert.False(t, mustMoney(t, "10.00", "BRL").Equals(mustMoney(t, "10.01", "BRL")))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := mustMoney(t, "99.90", "BRL")

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))

	// 反序列化同样受构造校验约束
	var bad Money
	err = json.Unmarshal([]byte(`{"amount":"-5","currency":"BRL"}`), &bad)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestBalance_AddSubtract(t *testing.T) {
	b := ZeroBalance("BRL")

	b, err := b.Add(mustMoney(t, "100.00", "BRL"))
	require.NoError(t, err)

	b, err = b.Subtract(mustMoney(t, "40.00", "BRL"))
	require.NoError(t, err)
	assert.Equal(t, "60.00 BRL", b.Money().String())

	_, err = b.Subtract(mustMoney(t, "60.01", "BRL"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = b.Add(mustMoney(t, "1.00", "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	assert.True(t, NewBalance(mustMoney(t, "60.00", "BRL")).Equals(b))
}
