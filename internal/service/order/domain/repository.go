// internal/service/order/domain/repository.go
package domain

import "context"

// OrderRepository 定义订单存储能力。
// 内存实现是默认策略；持久化实现可以在不触碰编排逻辑的
// 情况下替换进来。
type OrderRepository interface {
	// Create 生成唯一 ID 并以 PENDING 状态插入新订单，返回插入结果。
	// 并发创建之间不得丢失或重复 ID。
	Create(ctx context.Context, productID string, quantity int) (*Order, error)

	// UpdateStatus 更新订单状态。
	// ID 不存在时为 no-op（不是错误）；已处于终态的订单不会被改写。
	UpdateStatus(ctx context.Context, id string, status Status) error

	// FindByID 返回订单；不存在时返回 (nil, nil)。
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindAll 返回当前所有订单的快照，顺序不做保证。
	FindAll(ctx context.Context) ([]*Order, error)
}
