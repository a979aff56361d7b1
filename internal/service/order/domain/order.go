// internal/service/order/domain/order.go
package domain

import "time"

// Status 定义订单的生命周期状态。PENDING 是唯一的非终态：
// 订单恰好发生一次 PENDING → {CONFIRMED|FAILED} 的迁移，此后不再变化。
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusFailed    Status = "FAILED"
)

// IsTerminal 报告该状态是否为终态。
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// Order 是编排引擎跟踪的工作单元。
// 除 Status 外的所有字段在创建后不可变；Status 的变更
// 只能通过 OrderRepository.UpdateStatus 进行。
type Order struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
