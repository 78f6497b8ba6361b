package readmodel

import (
	"context"
	"sync"

	"tretabank/domain"
)

// MemoryAccountRepository 内存读模型仓储，用于测试与示例
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	byID     map[string]AccountRecord
	byNumber map[string]string // number -> id
}

// NewMemoryAccountRepository 创建内存读模型仓储
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:     make(map[string]AccountRecord),
		byNumber: make(map[string]string),
	}
}

// FindByNumber 实现 IAccountReadRepository
func (r *MemoryAccountRepository) FindByNumber(ctx context.Context, number string) (*AccountRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNumber[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	record := r.byID[id]
	return &record, nil
}

// Save 实现 IAccountReadRepository
func (r *MemoryAccountRepository) Save(ctx context.Context, record *AccountRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[record.ID] = *record
	r.byNumber[record.Number] = record.ID
	return nil
}

// Update 实现 IAccountReadRepository（最后写入者获胜）
func (r *MemoryAccountRepository) Update(ctx context.Context, record *AccountRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[record.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	r.byID[record.ID] = *record
	r.byNumber[record.Number] = record.ID
	return nil
}

// 确认实现接口
var _ IAccountReadRepository = (*MemoryAccountRepository)(nil)
