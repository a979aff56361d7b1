// internal/service/order/infrastructure/adapter/notification_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"meridian/internal/pkg/mq"
	"meridian/internal/service/order/domain"
)

// NotificationKafkaAdapter 实现了 port.NotificationProducer 接口，
// 把订单终态事件发到 Kafka。发布失败由调用方记录，不回传到订单状态。
type NotificationKafkaAdapter struct {
	writer *kafka.Writer
}

// NewNotificationKafkaAdapter 创建一个新的通知生产者适配器。
func NewNotificationKafkaAdapter(writer *kafka.Writer) *NotificationKafkaAdapter {
	return &NotificationKafkaAdapter{writer: writer}
}

func (a *NotificationKafkaAdapter) PublishOrderResult(ctx context.Context, event *domain.OrderResultEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal order result event")
	}
	// 以订单 ID 作为 key，同一订单的事件落在同一分区
	return mq.ProduceMessage(ctx, a.writer, []byte(event.OrderID), payload)
}

// Close 关闭底层的 Kafka writer。
func (a *NotificationKafkaAdapter) Close() error {
	return a.writer.Close()
}

// NoopNotificationAdapter 在未配置 Kafka broker 时使用。
type NoopNotificationAdapter struct{}

func (NoopNotificationAdapter) PublishOrderResult(context.Context, *domain.OrderResultEvent) error {
	return nil
}
