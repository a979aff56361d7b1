// internal/service/order/infrastructure/adapter/payment_http_adapter.go
package adapter

import (
	"context"
	"net/http"

	"meridian/internal/pkg/httpclient"
	"meridian/internal/pkg/logger"
	"meridian/internal/service/order/domain"
)

const (
	paymentsPath = "/payments"
	// 订单 ID 只通过这个 header 传给支付边界，用于下游日志关联，
	// 不参与任何业务逻辑。
	orderIDHeader = "X-Order-Id"
)

type paymentResponse struct {
	PaymentStatus string `json:"paymentStatus"`
}

// PaymentHTTPAdapter 实现了 port.PaymentProcessor 接口。
//
// 结果映射是刻意设计的：
//   - 远端明确报告成功        → SUCCESS
//   - 可达但失败/空体/畸形体   → FAILED
//   - 超过读取期限            → TIMEOUT（远端可能已经完成扣款）
//   - 其它传输层错误          → FAILED
//
// 客户端的连接/读取期限在构造时注入（参考策略各 2 秒）。
type PaymentHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

// NewPaymentHTTPAdapter 创建一个新的支付服务适配器。
// client 应当由 httpclient.NewClientWithDeadlines 构造。
func NewPaymentHTTPAdapter(client *httpclient.Client, baseURL string) *PaymentHTTPAdapter {
	return &PaymentHTTPAdapter{client: client, baseURL: baseURL}
}

func (a *PaymentHTTPAdapter) Pay(ctx context.Context, order *domain.Order) domain.PaymentOutcome {
	header := http.Header{}
	header.Set(orderIDHeader, order.ID)

	var resp paymentResponse
	status, err := a.client.PostJSON(ctx, a.baseURL+paymentsPath, header, nil, &resp)
	if err != nil {
		if httpclient.IsTimeout(err) {
			logger.Ctx(ctx).Warn().
				Str("order_id", order.ID).
				Msg("payment call exceeded deadline, mapping to TIMEOUT (remote effect unknown)")
			return domain.PaymentTimeout
		}
		logger.Ctx(ctx).Warn().
			Err(err).
			Int("http_status", status).
			Str("order_id", order.ID).
			Msg("payment call failed, mapping to FAILED")
		return domain.PaymentFailed
	}

	if resp.PaymentStatus == "SUCCESS" {
		return domain.PaymentSuccess
	}
	return domain.PaymentFailed
}
