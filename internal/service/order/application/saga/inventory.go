// internal/service/order/application/saga/inventory.go
package saga

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"meridian/internal/service/order/domain"
)

// InventoryHandler 负责库存预占步骤，是链上的第一步。
// 适配器保证返回封闭结果集，这里只做分支：REJECTED 直接终止链。
type InventoryHandler struct {
	NextHandler
}

func (h *InventoryHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.ReserveStock")
	defer span.End()

	outcome := orderCtx.Inventory.Reserve(ctx, orderCtx.Order)
	orderCtx.InventoryOutcome = outcome

	span.SetAttributes(
		attribute.String("order.id", orderCtx.Order.ID),
		attribute.String("inventory.outcome", string(outcome)),
	)

	if outcome == domain.InventoryRejected {
		orderCtx.FailureStep = "INVENTORY_REJECTED"
		span.SetStatus(codes.Error, "stock reservation rejected")
		return ErrStockRejected
	}

	span.AddEvent("stock reserved")
	return h.executeNext(orderCtx)
}
