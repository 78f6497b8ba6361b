// Package readmodel 提供账户读模型（快照投影）的存取
//
// 读模型不是事实来源：事件日志才是权威，读模型是可随时修复的
// 非规范化镜像，用于按账户号的快速查询。对同一自然键的并发更新
// 采取最后写入者获胜，不做冲突检测。
package readmodel

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccountRecord 账户投影记录
type AccountRecord struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	OwnerName     string          `json:"owner_name"`
	OwnerDocument string          `json:"owner_document"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IAccountReadRepository 账户读模型仓储接口
type IAccountReadRepository interface {
	// FindByNumber 按账户号（自然键）查询投影
	//
	// 不存在时返回 domain.ErrAccountNotFound。
	FindByNumber(ctx context.Context, number string) (*AccountRecord, error)

	// Save 创建投影（账户创建时使用）
	Save(ctx context.Context, record *AccountRecord) error

	// Update 按聚合标识更新投影（变更命令在日志追加成功后使用）
	Update(ctx context.Context, record *AccountRecord) error
}
