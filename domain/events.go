package domain

import "github.com/shopspring/decimal"

// IDomainEvent 领域事件接口
//
// 领域层仅关注事件本身的语义，不关心传输信封与存储细节。
type IDomainEvent interface {
	// EventType 返回领域事件类型标识
	EventType() string
}

// 领域事件类型
const (
	EventTypeDepositMade  = "DepositMade"
	EventTypeWithdrawMade = "WithdrawMade"
)

// DepositMadeEvent 存款完成事件
//
// Balance 为本次操作后的结果余额，属于冗余的快照字段，方便消费方
// 免于回放；权威余额始终来自日志中金额的逐笔折算。
type DepositMadeEvent struct {
	AccountID string          `json:"account_id"`
	Amount    Money           `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
}

// EventType 实现 IDomainEvent
func (e *DepositMadeEvent) EventType() string { return EventTypeDepositMade }

// WithdrawMadeEvent 取款完成事件
type WithdrawMadeEvent struct {
	AccountID string          `json:"account_id"`
	Amount    Money           `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
}

// EventType 实现 IDomainEvent
func (e *WithdrawMadeEvent) EventType() string { return EventTypeWithdrawMade }
