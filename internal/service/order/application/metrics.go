// internal/service/order/application/metrics.go
package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders accepted and recorded as PENDING.",
	})

	orderOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_outcomes_total",
		Help: "Orders that reached a terminal status, by decision point.",
	}, []string{"status", "reason"})

	inventoryOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reserve_outcomes_total",
		Help: "Inventory adapter outcomes.",
	}, []string{"outcome"})

	// TIMEOUT 与 FAILED 分开统计：超时时远端可能已经完成扣款，
	// 这是排障时最需要的信号。
	paymentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_capture_outcomes_total",
		Help: "Payment adapter outcomes; TIMEOUT is tracked apart from FAILED.",
	}, []string{"outcome"})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "order_dispatch_queue_depth",
		Help: "Orders waiting in the worker pool queue.",
	})
)
