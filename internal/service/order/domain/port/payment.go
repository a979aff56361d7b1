// internal/service/order/domain/port/payment.go
package port

import (
	"context"

	"meridian/internal/service/order/domain"
)

// PaymentProcessor 是支付边界的出站端口。
//
// 与 StockReserver 相同的契约：单次调用、封闭结果集、永不返回错误。
// 额外要求：读取期限内未收到响应要归类为 TIMEOUT 而不是 FAILED，
// 因为远端可能已经完成了扣款。
type PaymentProcessor interface {
	Pay(ctx context.Context, order *domain.Order) domain.PaymentOutcome
}
