// cmd/order-service/main.go
package main

import (
	"context"
	"strings"

	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"meridian/internal/pkg/bootstrap"
	"meridian/internal/pkg/httpclient"
	"meridian/internal/pkg/mq"
	"meridian/internal/pkg/workerpool"
	"meridian/internal/service/order/application"
	"meridian/internal/service/order/domain"
	"meridian/internal/service/order/domain/port"
	"meridian/internal/service/order/infrastructure"
	"meridian/internal/service/order/infrastructure/adapter"
	"meridian/internal/service/order/interfaces"
)

const serviceName = "order-service"

func main() {
	cfg := bootstrap.GetCurrentConfig()
	tracer := otel.Tracer(serviceName)

	repo := buildRepository(cfg)
	notifier, closeNotifier := buildNotifier(cfg)

	inventoryClient := httpclient.NewClient(tracer)
	// 支付客户端必须带硬性期限：下游会挂起，worker 不能陪它等
	paymentClient := httpclient.NewClientWithDeadlines(
		tracer,
		cfg.Services.PaymentConnectTimeout.Std(),
		cfg.Services.PaymentReadTimeout.Std(),
	)

	inventoryAdapter := adapter.NewInventoryHTTPAdapter(inventoryClient, cfg.Services.InventoryURL)
	paymentAdapter := adapter.NewPaymentHTTPAdapter(paymentClient, cfg.Services.PaymentURL)

	pool := workerpool.New(cfg.App.WorkerPoolSize)

	orderService := application.NewOrderApplicationService(
		repo,
		inventoryAdapter,
		paymentAdapter,
		notifier,
		pool,
		tracer,
		cfg.App.ProcessingTimeout.Std(),
	)
	orderHandler := interfaces.NewOrderHandler(orderService)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.OrderPort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			orderHandler.RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			// 先排空在途订单，再关闭通知通道
			pool.Shutdown()
			if closeNotifier != nil {
				if err := closeNotifier(); err != nil {
					zlog.Error().Err(err).Msg("error closing notification producer")
				}
			}
		},
	})
}

func buildRepository(cfg *bootstrap.Config) domain.OrderRepository {
	if dsn := cfg.Infra.Mysql.DSN; dsn != "" {
		repo, err := infrastructure.NewGormRepository(dsn)
		if err != nil {
			zlog.Fatal().Err(err).Msg("failed to connect order database")
		}
		zlog.Info().Msg("order repository: mysql")
		return repo
	}
	zlog.Info().Msg("order repository: in-memory")
	return infrastructure.NewMemoryRepository()
}

func buildNotifier(cfg *bootstrap.Config) (port.NotificationProducer, func() error) {
	if cfg.Infra.Kafka.Brokers == "" {
		return nil, nil
	}
	writer := mq.NewKafkaWriter(strings.Split(cfg.Infra.Kafka.Brokers, ","), cfg.Infra.Kafka.Topic)
	notifier := adapter.NewNotificationKafkaAdapter(writer)
	zlog.Info().Str("topic", cfg.Infra.Kafka.Topic).Msg("order result notifications: kafka")
	return notifier, notifier.Close
}
