// internal/service/order/infrastructure/adapter/inventory_http_adapter.go
package adapter

import (
	"context"

	"meridian/internal/pkg/httpclient"
	"meridian/internal/pkg/logger"
	"meridian/internal/service/order/domain"
)

const reservePath = "/inventory/reserve"

// reserveRequest / reserveResponse 是库存边界的线上契约。
type reserveRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type reserveResponse struct {
	Status string `json:"status"`
}

// InventoryHTTPAdapter 实现了 port.StockReserver 接口。
//
// 它对库存边界恰好发起一次同步调用，并把一切失败
// （连接错误、非 200、畸形响应、意外状态字段）折叠为 REJECTED；
// 只有远端明确返回 RESERVED 才算成功。
type InventoryHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

// NewInventoryHTTPAdapter 创建一个新的库存服务适配器。
func NewInventoryHTTPAdapter(client *httpclient.Client, baseURL string) *InventoryHTTPAdapter {
	return &InventoryHTTPAdapter{client: client, baseURL: baseURL}
}

func (a *InventoryHTTPAdapter) Reserve(ctx context.Context, order *domain.Order) domain.InventoryOutcome {
	req := reserveRequest{ProductID: order.ProductID, Quantity: order.Quantity}

	var resp reserveResponse
	status, err := a.client.PostJSON(ctx, a.baseURL+reservePath, nil, req, &resp)
	if err != nil {
		logger.Ctx(ctx).Warn().
			Err(err).
			Int("http_status", status).
			Str("order_id", order.ID).
			Msg("inventory reserve call failed, mapping to REJECTED")
		return domain.InventoryRejected
	}

	if resp.Status == "RESERVED" {
		return domain.InventoryReserved
	}
	return domain.InventoryRejected
}
