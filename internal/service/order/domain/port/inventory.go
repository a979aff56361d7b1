// internal/service/order/domain/port/inventory.go
package port

import (
	"context"

	"meridian/internal/service/order/domain"
)

// StockReserver 是库存边界的出站端口。
//
// 实现必须把所有故障模式（连接错误、畸形响应、意外状态）
// 折叠进封闭结果集，永不向调用方抛出错误；每次调用恰好
// 发起一次远程请求，不做重试。
type StockReserver interface {
	Reserve(ctx context.Context, order *domain.Order) domain.InventoryOutcome
}
