// internal/service/order/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"meridian/internal/service/order/domain"
)

// MemoryRepository 把订单保存在进程内存中，生命周期与进程一致。
// 这是参考策略的默认存储：没有淘汰，也没有落盘。
//
// 仓储独占订单的可变字段：对外只返回副本，调用方拿到的
// Order 永远不会被后台更新撕裂。
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]*domain.Order)}
}

func (m *MemoryRepository) Create(ctx context.Context, productID string, quantity int) (*domain.Order, error) {
	now := time.Now()
	order := &domain.Order{
		ID:        uuid.NewString(),
		ProductID: productID,
		Quantity:  quantity,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.orders[order.ID] = order
	m.mu.Unlock()

	cp := *order
	return &cp, nil
}

func (m *MemoryRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		// 未知 ID 视为 no-op
		return nil
	}
	if order.Status.IsTerminal() {
		// 终态只写一次，之后的写入全部丢弃
		return nil
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

func (m *MemoryRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Order, 0, len(m.orders))
	for _, order := range m.orders {
		cp := *order
		out = append(out, &cp)
	}
	return out, nil
}
