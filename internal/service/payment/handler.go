// internal/service/payment/handler.go
package payment

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"meridian/internal/pkg/logger"
)

const orderIDHeader = "X-Order-Id"

// Handler 暴露支付边界的 HTTP 接口。
type Handler struct {
	simulator *Simulator
}

func NewHandler(simulator *Simulator) *Handler {
	return &Handler{simulator: simulator}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("POST /payments", h.pay)
	mux.HandleFunc("POST /internal/test/mode", h.setMode)
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	tracer := otel.Tracer("payment-service")
	ctx, span := tracer.Start(ctx, "payment-service.Pay")
	defer span.End()

	orderID := r.Header.Get(orderIDHeader)
	if orderID == "" {
		orderID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("order.id", orderID))

	result := h.simulator.Process(orderID)

	if result.Delay > 0 {
		// 客户端断开后没有必要继续挂着
		select {
		case <-time.After(result.Delay):
		case <-r.Context().Done():
			return
		}
	}

	logger.Ctx(ctx).Info().
		Str("order_id", orderID).
		Str("mode", string(h.simulator.Mode())).
		Int("status_code", result.StatusCode).
		Dur("delay", result.Delay).
		Msg("payment processed")

	if result.StatusCode != http.StatusOK {
		http.Error(w, "payment processing error", result.StatusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result.Body)
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// setMode 是测试专用入口，把模拟器切到确定性模式。
func (h *Handler) setMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	mode, ok := ParseMode(req.Mode)
	if !ok {
		http.Error(w, "unknown mode", http.StatusBadRequest)
		return
	}
	h.simulator.SetMode(mode)

	logger.Ctx(r.Context()).Info().Str("mode", string(mode)).Msg("simulator mode switched")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mode": string(mode)})
}
