// internal/service/order/application/service.go
package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"meridian/internal/pkg/logger"
	"meridian/internal/pkg/workerpool"
	"meridian/internal/service/order/application/saga"
	"meridian/internal/service/order/domain"
	"meridian/internal/service/order/domain/port"
)

// OrderApplicationService 负责订单的受理与异步编排。
//
// 受理路径（SubmitNewOrder）只做两件事：写入 PENDING 订单、
// 把编排任务丢进 worker 池，然后立即返回。调用方永远不会
// 阻塞在下游调用上，也永远不会因为下游失败收到错误——
// 失败只通过后续轮询以 FAILED 终态可见。
type OrderApplicationService struct {
	repo              domain.OrderRepository
	inventory         port.StockReserver
	payment           port.PaymentProcessor
	notifier          port.NotificationProducer
	pool              *workerpool.Pool
	tracer            trace.Tracer
	processingTimeout time.Duration
}

func NewOrderApplicationService(
	repo domain.OrderRepository,
	inventory port.StockReserver,
	payment port.PaymentProcessor,
	notifier port.NotificationProducer,
	pool *workerpool.Pool,
	tracer trace.Tracer,
	processingTimeout time.Duration,
) *OrderApplicationService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if processingTimeout <= 0 {
		processingTimeout = 30 * time.Second
	}
	return &OrderApplicationService{
		repo:              repo,
		inventory:         inventory,
		payment:           payment,
		notifier:          notifier,
		pool:              pool,
		tracer:            tracer,
		processingTimeout: processingTimeout,
	}
}

// SubmitNewOrder 创建订单并立即返回 PENDING 结果。
func (s *OrderApplicationService) SubmitNewOrder(ctx context.Context, req *CreateOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.SubmitNewOrder")
	defer span.End()

	order, err := s.repo.Create(ctx, req.ProductID, req.Quantity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create order")
		return nil, err
	}
	ordersCreated.Inc()
	span.SetAttributes(attribute.String("order.id", order.ID))

	// 后台任务只继承链路信息，不继承请求的取消信号：
	// HTTP 请求结束不应中断订单的编排。
	link := trace.ContextWithSpanContext(context.Background(), trace.SpanContextFromContext(ctx))

	orderID := order.ID
	if ok := s.pool.Submit(func() { s.ProcessOrder(link, orderID) }); !ok {
		// 池只在进程关停时拒收；订单不能留在 PENDING，就地收尾
		logger.Ctx(ctx).Warn().Str("order_id", orderID).Msg("worker pool closed, failing order inline")
		s.finalize(link, orderID, domain.StatusFailed, "EXCEPTION")
		return s.repo.FindByID(ctx, orderID)
	}
	queueDepth.Set(float64(s.pool.Depth()))

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("product_id", order.ProductID).
		Int("quantity", order.Quantity).
		Msg("order accepted, processing scheduled")
	return order, nil
}

// ProcessOrder 执行一个订单的完整编排流程：预占库存、捕获支付、
// 写入终态。每个订单恰好被调度一次，由单个 worker 跑到完成。
//
// 活性保证：一旦流程开始，任何代码路径都不能在未写入终态的
// 情况下退出——包括存储本身抛出的意外故障。
func (s *OrderApplicationService) ProcessOrder(ctx context.Context, orderID string) {
	defer queueDepth.Set(float64(s.pool.Depth()))

	// 单个订单的处理设置独立的超时，防止挂起的下游占住 worker
	ctx, cancel := context.WithTimeout(ctx, s.processingTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "app.ProcessOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	// 活性兜底：无论下面发生什么，订单都不能停留在 PENDING
	defer func() {
		if r := recover(); r != nil {
			logger.Ctx(ctx).Error().
				Interface("panic", r).
				Str("order_id", orderID).
				Msg("order pipeline panicked, forcing FAILED")
			span.SetStatus(codes.Error, "pipeline panic")
			s.finalize(ctx, orderID, domain.StatusFailed, "EXCEPTION")
		}
	}()

	// 只凭 ID 重新读取订单，不信任调用方传递的快照
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil || order == nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", orderID).Msg("order lookup failed before processing")
		span.SetStatus(codes.Error, "order lookup failed")
		s.finalize(ctx, orderID, domain.StatusFailed, "EXCEPTION")
		return
	}

	orderCtx := &saga.OrderContext{
		Ctx:       ctx,
		Order:     order,
		Tracer:    s.tracer,
		Inventory: s.inventory,
		Payment:   s.payment,
	}

	chainErr := s.buildChain().Handle(orderCtx)
	s.recordOutcomes(orderCtx)

	if chainErr != nil {
		reason := orderCtx.FailureStep
		if reason == "" {
			reason = "EXCEPTION"
		}
		span.SetStatus(codes.Error, reason)
		logger.Ctx(ctx).Warn().
			Err(chainErr).
			Str("order_id", orderID).
			Str("reason", reason).
			Str("inventory", string(orderCtx.InventoryOutcome)).
			Str("payment", string(orderCtx.PaymentOutcome)).
			Msg("order failed")
		s.finalize(ctx, orderID, domain.StatusFailed, reason)
		return
	}

	logger.Ctx(ctx).Info().
		Str("order_id", orderID).
		Str("inventory", string(orderCtx.InventoryOutcome)).
		Str("payment", string(orderCtx.PaymentOutcome)).
		Msg("order confirmed")
	s.finalize(ctx, orderID, domain.StatusConfirmed, "CONFIRMED")
}

// GetOrder 返回订单当前状态；不存在时返回 (nil, nil)。
func (s *OrderApplicationService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// ListOrders 返回当前所有订单的快照。
func (s *OrderApplicationService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.FindAll(ctx)
}

func (s *OrderApplicationService) buildChain() saga.Handler {
	chain := new(saga.InventoryHandler)
	chain.SetNext(new(saga.PaymentHandler))
	return chain
}

// finalize 写入终态并发布结果事件。
// 这是流程的最后一道工序：写入失败只能记录，没有更多可回退的东西。
// 终态写入不受流程超时的影响，否则超时本身会把订单卡在 PENDING。
func (s *OrderApplicationService) finalize(ctx context.Context, orderID string, status domain.Status, reason string) {
	ctx = context.WithoutCancel(ctx)

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		logger.Ctx(ctx).Error().
			Err(err).
			Str("order_id", orderID).
			Str("status", string(status)).
			Msg("CRITICAL: failed to write terminal status")
	}
	orderOutcomes.WithLabelValues(string(status), reason).Inc()

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil || order == nil {
		return
	}
	event := &domain.OrderResultEvent{
		OrderID:    order.ID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		Status:     order.Status,
		Reason:     reason,
		OccurredAt: time.Now(),
	}
	if err := s.notifier.PublishOrderResult(ctx, event); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", orderID).Msg("order result notification failed")
	}
}

func (s *OrderApplicationService) recordOutcomes(orderCtx *saga.OrderContext) {
	if orderCtx.InventoryOutcome != "" {
		inventoryOutcomes.WithLabelValues(string(orderCtx.InventoryOutcome)).Inc()
	}
	if orderCtx.PaymentOutcome != "" {
		paymentOutcomes.WithLabelValues(string(orderCtx.PaymentOutcome)).Inc()
	}
}

// noopNotifier 让通知端口在未配置时保持可选。
type noopNotifier struct{}

func (noopNotifier) PublishOrderResult(context.Context, *domain.OrderResultEvent) error { return nil }
