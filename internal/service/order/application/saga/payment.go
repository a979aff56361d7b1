// internal/service/order/application/saga/payment.go
package saga

import (
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"meridian/internal/service/order/domain"
)

// PaymentHandler 负责支付捕获步骤。
// 只有库存预占成功后才会到达这里；预占成功但支付失败时
// 不做库存补偿（明确的非目标）。
type PaymentHandler struct {
	NextHandler
}

func (h *PaymentHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.CapturePayment")
	defer span.End()

	outcome := orderCtx.Payment.Pay(ctx, orderCtx.Order)
	orderCtx.PaymentOutcome = outcome

	span.SetAttributes(
		attribute.String("order.id", orderCtx.Order.ID),
		attribute.String("payment.outcome", string(outcome)),
	)

	switch outcome {
	case domain.PaymentSuccess:
		span.AddEvent("payment captured")
		return h.executeNext(orderCtx)
	case domain.PaymentTimeout:
		// 超时不等于失败：远端可能已经扣款成功，只是我们没观察到。
		// 订单结果相同，但失败原因必须保留这个区别。
		orderCtx.FailureStep = "PAYMENT_TIMEOUT"
		span.SetStatus(codes.Error, "payment timed out")
		return errors.Wrap(ErrPaymentNotCaptured, "timeout")
	default:
		orderCtx.FailureStep = "PAYMENT_FAILED"
		span.SetStatus(codes.Error, "payment failed")
		return errors.Wrap(ErrPaymentNotCaptured, "failed")
	}
}
