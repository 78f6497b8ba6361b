package domain

import (
	"strconv"

	"github.com/google/uuid"

	"tretabank/idgen/snowflake"
)

// AggregateTypeBankAccount 聚合类型标识
const AggregateTypeBankAccount = "BankAccount"

// NewBankAccount 账户工厂
//
// 分配新的聚合标识（uuid）与账户号（snowflake），余额为0，
// 事件流位置为0（新账户没有任何日志条目）。
func NewBankAccount(ownerName, ownerDocument string) *BankAccount {
	return &BankAccount{
		id:      uuid.NewString(),
		number:  strconv.FormatInt(snowflake.Generate(), 10),
		owner:   Owner{Name: ownerName, Document: ownerDocument},
		balance: ZeroBalance(DefaultCurrency),
	}
}

// ReconstituteBankAccount 依据读模型快照重建聚合
//
// 供编排层在执行变更命令前使用；事件流位置由调用方随后通过
// SetStreamPosition 填充。
func ReconstituteBankAccount(id, number string, owner Owner, balance Balance) *BankAccount {
	return &BankAccount{
		id:      id,
		number:  number,
		owner:   owner,
		balance: balance,
	}
}
