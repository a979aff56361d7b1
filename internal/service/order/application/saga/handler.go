// internal/service/order/application/saga/handler.go
package saga

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"

	"meridian/internal/service/order/domain"
	"meridian/internal/service/order/domain/port"
)

var (
	// ErrStockRejected 表示库存边界拒绝了预占，链在此终止，
	// 支付步骤不会被执行。
	ErrStockRejected = errors.New("saga: stock reservation rejected")

	// ErrPaymentNotCaptured 表示支付未成功（显式失败或超时）。
	ErrPaymentNotCaptured = errors.New("saga: payment not captured")
)

// OrderContext 在编排链中传递订单与各步骤的结果。
// 所有外部依赖都是抽象端口，核心逻辑不感知传输细节。
type OrderContext struct {
	Ctx    context.Context
	Order  *domain.Order
	Tracer trace.Tracer

	// 依赖出站端口 (Interfaces)
	Inventory port.StockReserver
	Payment   port.PaymentProcessor

	// 各步骤写入的结果，供最终决策与观测使用。
	// 零值表示该步骤未被执行。
	InventoryOutcome domain.InventoryOutcome
	PaymentOutcome   domain.PaymentOutcome

	// FailureStep 标记导致失败的决策点，用于日志与指标，
	// 例如 INVENTORY_REJECTED / PAYMENT_TIMEOUT。
	FailureStep string
}

// Handler 是编排链的处理器接口。
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(orderCtx *OrderContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(orderCtx *OrderContext) error {
	if h.next != nil {
		return h.next.Handle(orderCtx)
	}
	return nil
}
