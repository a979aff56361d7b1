// internal/service/inventory/ledger.go
package inventory

import (
	"context"
	"sync"
)

// Status 是预占请求的响应状态。
type Status string

const (
	StatusReserved   Status = "RESERVED"
	StatusOutOfStock Status = "OUT_OF_STOCK"
)

// Ledger 维护商品库存并执行确定性的预占规则：
// 请求数量 <= 可用库存 → 扣减并 RESERVED，否则 OUT_OF_STOCK。
type Ledger interface {
	Reserve(ctx context.Context, productID string, quantity int) (Status, error)
}

// DefaultStock 返回与参考部署一致的初始库存。
func DefaultStock() map[string]int {
	return map[string]int{"A1": 100, "B1": 9, "C1": 10}
}

// MemoryLedger 把库存保存在进程内，是默认实现。
// 检查与扣减在同一把锁下完成，并发预占不会超卖。
type MemoryLedger struct {
	mu    sync.Mutex
	stock map[string]int
}

func NewMemoryLedger(stock map[string]int) *MemoryLedger {
	copied := make(map[string]int, len(stock))
	for productID, quantity := range stock {
		copied[productID] = quantity
	}
	return &MemoryLedger{stock: copied}
}

func (l *MemoryLedger) Reserve(ctx context.Context, productID string, quantity int) (Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	available := l.stock[productID]
	if quantity <= available {
		l.stock[productID] = available - quantity
		return StatusReserved, nil
	}
	return StatusOutOfStock, nil
}

// Available 返回当前可用库存，测试与诊断用。
func (l *MemoryLedger) Available(productID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stock[productID]
}
