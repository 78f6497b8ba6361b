// Package account 提供账户命令编排服务
//
// 编排层串联三个依赖：事件日志（事实来源）、读模型投影（快速查询）
// 与事件发布器（尽力而为的对外通知）。命令流程固定为：
// 读投影 → 查询流位置 → 重建聚合 → 领域操作 → 追加事件 → 更新投影。
// 位置冲突由事件存储在提交时裁决，本层不做内部重试，由调用方决定
// 是否以最新状态重新提交。
package account

import (
	"context"
	stdErrors "errors"

	"tretabank/domain"
	"tretabank/errors"
	"tretabank/eventing"
	"tretabank/eventing/store"
	"tretabank/logging"
	"tretabank/messaging"
	"tretabank/patterns/retry"
	"tretabank/readmodel"
	"tretabank/validation"
)

// Config 服务依赖配置
type Config struct {
	EventStore store.IEventStore
	Accounts   readmodel.IAccountReadRepository
	Publisher  messaging.IEventPublisher // 可选，缺省为 Noop
	Logger     logging.Logger            // 可选
}

// Service 账户命令编排服务
type Service struct {
	events    store.IEventStore
	accounts  readmodel.IAccountReadRepository
	publisher messaging.IEventPublisher
	logger    logging.Logger
}

// NewService 创建账户服务
func NewService(cfg Config) (*Service, error) {
	if cfg.EventStore == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "event store is required")
	}
	if cfg.Accounts == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "account repository is required")
	}
	if cfg.Publisher == nil {
		cfg.Publisher = messaging.NewNoopPublisher()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.ComponentLogger("app.account")
	}
	return &Service{
		events:    cfg.EventStore,
		accounts:  cfg.Accounts,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}, nil
}

// CreateAccount 开户
//
// 开户只写投影，不产生日志条目：新账户的事件流为空，流位置为0。
func (s *Service) CreateAccount(ctx context.Context, ownerName, ownerDocument string) (*readmodel.AccountRecord, error) {
	if err := validation.ValidateRequired(ownerName, "owner name"); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired(ownerDocument, "owner document"); err != nil {
		return nil, err
	}

	account := domain.NewBankAccount(ownerName, ownerDocument)
	record := recordFromAccount(account)
	if err := s.accounts.Save(ctx, record); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "save account projection failed")
	}

	s.logger.Info(ctx, "account created",
		logging.String("account_id", account.ID()),
		logging.String("number", account.Number()))
	return record, nil
}

// Deposit 存款命令
func (s *Service) Deposit(ctx context.Context, number, amount, currency string) (*readmodel.AccountRecord, error) {
	return s.execute(ctx, number, amount, currency, (*domain.BankAccount).Deposit)
}

// Withdraw 取款命令
func (s *Service) Withdraw(ctx context.Context, number, amount, currency string) (*readmodel.AccountRecord, error) {
	return s.execute(ctx, number, amount, currency, (*domain.BankAccount).Withdraw)
}

// FindByNumber 按账户号查询投影
func (s *Service) FindByNumber(ctx context.Context, number string) (*readmodel.AccountRecord, error) {
	if err := validation.ValidateRequired(number, "account number"); err != nil {
		return nil, err
	}
	record, err := s.accounts.FindByNumber(ctx, number)
	if err != nil {
		return nil, classifyRepositoryError(err)
	}
	return record, nil
}

// execute 变更命令的公共编排流程
func (s *Service) execute(ctx context.Context, number, amount, currency string,
	op func(*domain.BankAccount, domain.Money) error) (*readmodel.AccountRecord, error) {

	if err := validation.ValidateRequired(number, "account number"); err != nil {
		return nil, err
	}
	money, err := domain.NewMoneyFromString(amount, currency)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeInvalidInput, "invalid command amount")
	}

	record, err := s.accounts.FindByNumber(ctx, number)
	if err != nil {
		return nil, classifyRepositoryError(err)
	}

	lastPosition, err := s.events.LastPosition(ctx, record.ID)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "query stream position failed")
	}

	account, err := reconstitute(record)
	if err != nil {
		return nil, err
	}
	account.SetStreamPosition(lastPosition)

	// 领域规则裁决：失败时聚合无副作用，什么都不持久化
	if err := op(account, money); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeInvalidInput, "command rejected")
	}

	staged := account.Commit()
	envelopes := make([]eventing.Event, 0, len(staged))
	for i, evt := range staged {
		envelopes = append(envelopes, *eventing.NewEvent(account.ID(), evt.EventType(), lastPosition+uint64(i)+1, evt))
	}

	if err := s.events.AppendEvents(ctx, account.ID(), envelopes, lastPosition); err != nil {
		if eventing.IsConcurrencyError(err) {
			return nil, errors.WrapError(err, errors.ErrCodeConcurrency,
				"append conflicted with a concurrent command")
		}
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "append events failed")
	}

	// 日志追加成功即命令成功；投影与发布都是后续的衍生动作
	record.Balance = account.Balance().Money().Amount()
	record.Currency = account.Balance().Money().Currency()
	if err := s.accounts.Update(ctx, record); err != nil {
		// 投影落后可由对账修复，不回滚已提交的事件
		s.logger.Error(ctx, "update account projection failed",
			logging.String("number", number), logging.Error(err))
	}

	s.publish(ctx, envelopes)

	s.logger.Info(ctx, "command committed",
		logging.String("number", number),
		logging.String("type", envelopes[len(envelopes)-1].Type),
		logging.Uint64("position", envelopes[len(envelopes)-1].Position))
	return record, nil
}

// publish 尽力而为地发布已提交事件，失败只记日志
func (s *Service) publish(ctx context.Context, envelopes []eventing.Event) {
	messages := make([]messaging.IMessage, 0, len(envelopes))
	for i := range envelopes {
		envelope := &envelopes[i]
		msg := messaging.NewMessage(envelope.ID, envelope.Type, envelope.Payload)
		msg.SetMetadata("stream_id", envelope.StreamID)
		msg.SetMetadata("position", envelope.Position)
		messages = append(messages, msg)
	}
	err := retry.Do(ctx, func(ctx context.Context) error {
		return s.publisher.PublishAll(ctx, messages)
	}, retry.DefaultConfig())
	if err != nil {
		s.logger.Warn(ctx, "publish committed events failed", logging.Error(err))
	}
}

// reconstitute 依据投影记录重建聚合
func reconstitute(record *readmodel.AccountRecord) (*domain.BankAccount, error) {
	balanceMoney, err := domain.NewMoney(record.Balance, record.Currency)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "corrupt account projection")
	}
	owner := domain.Owner{Name: record.OwnerName, Document: record.OwnerDocument}
	return domain.ReconstituteBankAccount(record.ID, record.Number, owner, domain.NewBalance(balanceMoney)), nil
}

func recordFromAccount(account *domain.BankAccount) *readmodel.AccountRecord {
	money := account.Balance().Money()
	return &readmodel.AccountRecord{
		ID:            account.ID(),
		Number:        account.Number(),
		OwnerName:     account.Owner().Name,
		OwnerDocument: account.Owner().Document,
		Balance:       money.Amount(),
		Currency:      money.Currency(),
	}
}

func classifyRepositoryError(err error) error {
	if stdErrors.Is(err, domain.ErrAccountNotFound) {
		return errors.WrapError(err, errors.ErrCodeNotFound, "bank account not found")
	}
	return errors.WrapError(err, errors.ErrCodeDatabase, "account repository failed")
}
