package account

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"tretabank/domain"
	"tretabank/errors"
	"tretabank/eventing"
	"tretabank/logging"
)

// Reconcile 对账：以事件日志重算余额并修复偏离的投影
//
// 投影只是镜像，命令提交后投影更新失败或乱序会留下有界的陈旧状态。
// 对账回放整条流，按日志中的金额逐笔折算出权威余额（事件载荷里的
// 冗余结果余额不参与裁决），偏离时重写投影。返回是否发生了修复。
func (s *Service) Reconcile(ctx context.Context, number string) (bool, error) {
	record, err := s.accounts.FindByNumber(ctx, number)
	if err != nil {
		return false, classifyRepositoryError(err)
	}

	events, err := s.events.LoadEvents(ctx, record.ID, 0)
	if err != nil {
		return false, errors.WrapError(err, errors.ErrCodeDatabase, "load account stream failed")
	}

	expected, err := replayBalance(events)
	if err != nil {
		return false, err
	}

	if record.Balance.Equal(expected) {
		return false, nil
	}

	s.logger.Warn(ctx, "account projection diverged from event log",
		logging.String("number", number),
		logging.String("projected", record.Balance.String()),
		logging.String("expected", expected.String()))

	record.Balance = expected
	if err := s.accounts.Update(ctx, record); err != nil {
		return false, classifyRepositoryError(err)
	}
	return true, nil
}

// replayBalance 从零开始折算整条流的金额，空流返回0
func replayBalance(events []eventing.Event) (decimal.Decimal, error) {
	balance := decimal.Zero
	for i := range events {
		envelope := &events[i]
		amount, err := payloadAmount(envelope)
		if err != nil {
			return decimal.Decimal{}, err
		}
		switch envelope.Type {
		case domain.EventTypeDepositMade:
			balance = balance.Add(amount)
		case domain.EventTypeWithdrawMade:
			balance = balance.Sub(amount)
		default:
			return decimal.Decimal{}, errors.NewError(errors.ErrCodeInternal,
				"unknown event type in account stream")
		}
	}
	return balance, nil
}

// payloadAmount 从事件载荷中取操作金额
//
// 载荷可能是解码前的原始JSON（SQL存储）或领域事件本体（内存存储）。
func payloadAmount(envelope *eventing.Event) (decimal.Decimal, error) {
	switch payload := envelope.Payload.(type) {
	case *domain.DepositMadeEvent:
		return payload.Amount.Amount(), nil
	case *domain.WithdrawMadeEvent:
		return payload.Amount.Amount(), nil
	case json.RawMessage:
		return decodeAmount([]byte(payload))
	case []byte:
		return decodeAmount(payload)
	default:
		data, err := json.Marshal(payload)
		if err != nil {
			return decimal.Decimal{}, errors.WrapError(err, errors.ErrCodeInternal, "encode event payload failed")
		}
		return decodeAmount(data)
	}
}

func decodeAmount(data []byte) (decimal.Decimal, error) {
	var carrier struct {
		Amount domain.Money `json:"amount"`
	}
	if err := json.Unmarshal(data, &carrier); err != nil {
		return decimal.Decimal{}, errors.WrapError(err, errors.ErrCodeInternal, "decode event payload failed")
	}
	return carrier.Amount.Amount(), nil
}
