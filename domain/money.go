package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency 默认币种
const DefaultCurrency = "BRL"

// Money 金额值对象
//
// 不可变：所有运算返回新值。金额使用定点十进制表示，
// 币种不一致的运算一律拒绝，不做汇率换算。
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney 创建金额
//
// 金额为负返回 ErrInvalidAmount，币种为空返回 ErrInvalidCurrency。
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	if strings.TrimSpace(currency) == "" {
		return Money{}, ErrInvalidCurrency
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString 从十进制字符串创建金额（如 "100.00"）
func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return NewMoney(d, currency)
}

// ZeroMoney 指定币种的零金额
func ZeroMoney(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount 金额数值
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency 币种
func (m Money) Currency() string {
	return m.currency
}

// IsPositive 金额是否大于0
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add 加法，币种不一致返回 ErrCurrencyMismatch
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract 减法
//
// 币种不一致返回 ErrCurrencyMismatch，结果为负返回 ErrInsufficientFunds。
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	if m.amount.LessThan(other.amount) {
		return Money{}, ErrInsufficientFunds
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Equals 金额与币种均相等
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String 形如 "100.00 BRL"
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// MarshalJSON 实现 json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

// UnmarshalJSON 实现 json.Unmarshaler
//
// 反序列化走构造校验，拒绝负金额与空币种，保证事件重放时值对象不变量成立。
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
