package domain

// BankAccount 银行账户聚合根
//
// 账户是一致性边界：余额变更只能通过 Deposit/Withdraw 进行，
// 每次成功的变更恰好暂存一个未提交领域事件，由编排层通过
// Commit 取出并持久化。校验失败不产生任何副作用。
//
// streamPosition 是编排元数据而非业务属性：加载时由事件日志的
// 最新位置填充，领域方法从不推进它，只有事件存储接受追加后才算数。
type BankAccount struct {
	id      string
	number  string
	owner   Owner
	balance Balance

	streamPosition uint64
	uncommitted    []IDomainEvent
}

// ID 聚合标识（同时作为事件流ID）
func (a *BankAccount) ID() string {
	return a.id
}

// Number 对外可寻址的账户号（自然键）
func (a *BankAccount) Number() string {
	return a.number
}

// Owner 账户持有人
func (a *BankAccount) Owner() Owner {
	return a.owner
}

// Balance 当前余额
func (a *BankAccount) Balance() Balance {
	return a.balance
}

// StreamPosition 事件流中最后一个已提交事件的位置（0表示流为空）
func (a *BankAccount) StreamPosition() uint64 {
	return a.streamPosition
}

// SetStreamPosition 设置事件流位置
//
// 仅供编排层在加载聚合时使用（来源为事件日志的 LastPosition 查询），
// 领域方法不会修改该值。
func (a *BankAccount) SetStreamPosition(position uint64) {
	a.streamPosition = position
}

// Deposit 存款
//
// 金额必须大于0，否则返回 ErrInvalidAmount；币种不一致返回
// ErrCurrencyMismatch。成功后余额增加并暂存 DepositMadeEvent。
func (a *BankAccount) Deposit(amount Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	newBalance, err := a.balance.Add(amount)
	if err != nil {
		return err
	}
	a.balance = newBalance
	a.record(&DepositMadeEvent{
		AccountID: a.id,
		Amount:    amount,
		Balance:   newBalance.Money().Amount(),
	})
	return nil
}

// Withdraw 取款
//
// 金额必须大于0，否则返回 ErrInvalidAmount；余额不足返回
// ErrInsufficientFunds。成功后余额减少并暂存 WithdrawMadeEvent。
func (a *BankAccount) Withdraw(amount Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.Currency() != a.balance.Money().Currency() {
		return ErrCurrencyMismatch
	}
	if amount.Amount().GreaterThan(a.balance.Money().Amount()) {
		return ErrInsufficientFunds
	}
	newBalance, err := a.balance.Subtract(amount)
	if err != nil {
		return err
	}
	a.balance = newBalance
	a.record(&WithdrawMadeEvent{
		AccountID: a.id,
		Amount:    amount,
		Balance:   newBalance.Money().Amount(),
	})
	return nil
}

// UncommittedEvents 返回未提交事件的副本
func (a *BankAccount) UncommittedEvents() []IDomainEvent {
	events := make([]IDomainEvent, len(a.uncommitted))
	copy(events, a.uncommitted)
	return events
}

// Commit 取出暂存事件并清空缓冲
//
// 这是一个作用域边界而非网络调用：不做任何I/O，持久化由调用方负责。
// 无暂存事件时返回空切片。
func (a *BankAccount) Commit() []IDomainEvent {
	events := a.uncommitted
	a.uncommitted = nil
	if events == nil {
		events = []IDomainEvent{}
	}
	return events
}

func (a *BankAccount) record(evt IDomainEvent) {
	a.uncommitted = append(a.uncommitted, evt)
}
