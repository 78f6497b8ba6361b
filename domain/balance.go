package domain

// Balance 余额值对象，包装一个 Money
//
// 不可变：Add/Subtract 委托给 Money 并返回新的 Balance。
type Balance struct {
	money Money
}

// NewBalance 基于金额创建余额
func NewBalance(money Money) Balance {
	return Balance{money: money}
}

// ZeroBalance 指定币种的零余额
func ZeroBalance(currency string) Balance {
	return Balance{money: ZeroMoney(currency)}
}

// Money 余额对应的金额
func (b Balance) Money() Money {
	return b.money
}

// Add 加上一笔金额
func (b Balance) Add(money Money) (Balance, error) {
	sum, err := b.money.Add(money)
	if err != nil {
		return Balance{}, err
	}
	return Balance{money: sum}, nil
}

// Subtract 减去一笔金额
func (b Balance) Subtract(money Money) (Balance, error) {
	diff, err := b.money.Subtract(money)
	if err != nil {
		return Balance{}, err
	}
	return Balance{money: diff}, nil
}

// Equals 余额相等
func (b Balance) Equals(other Balance) bool {
	return b.money.Equals(other.money)
}
