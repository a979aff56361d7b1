// internal/service/order/domain/port/notification.go
package port

import (
	"context"

	"meridian/internal/service/order/domain"
)

// NotificationProducer 发布订单终态事件。
// 发送失败由调用方记录日志，不影响订单状态。
type NotificationProducer interface {
	PublishOrderResult(ctx context.Context, event *domain.OrderResultEvent) error
}
