// internal/service/order/domain/outcome.go
package domain

// InventoryOutcome 是库存预占调用的封闭结果集。
// 适配器把一切传输层故障折叠进这个集合：只有明确的成功信号
// 才是 RESERVED，其余一律 REJECTED。
type InventoryOutcome string

const (
	InventoryReserved InventoryOutcome = "RESERVED"
	InventoryRejected InventoryOutcome = "REJECTED"
)

// PaymentOutcome 是支付调用的封闭结果集。
//
// TIMEOUT 与 FAILED 对订单结果等价（都不是成功），但必须在
// 日志与指标中保持可区分：超时时远端可能已经完成了扣款，
// 只是我们没有观察到。
type PaymentOutcome string

const (
	PaymentSuccess PaymentOutcome = "SUCCESS"
	PaymentFailed  PaymentOutcome = "FAILED"
	PaymentTimeout PaymentOutcome = "TIMEOUT"
)
