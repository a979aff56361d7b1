// internal/service/order/domain/event.go
package domain

import "time"

// OrderResultEvent 在订单到达终态后发布，供下游通知类消费方使用。
// 发布是尽力而为的，不影响订单本身的状态。
type OrderResultEvent struct {
	OrderID    string    `json:"orderId"`
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	Status     Status    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
