// internal/service/inventory/handler.go
package inventory

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"meridian/internal/pkg/logger"
)

// Handler 暴露库存边界的 HTTP 接口。
// 协议很薄：一个预占端点，200 + {status} 的响应，其余都是台账的事。
type Handler struct {
	ledger Ledger
}

func NewHandler(ledger Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("POST /inventory/reserve", h.reserve)
}

type reserveRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type reserveResponse struct {
	Status Status `json:"status"`
}

func (h *Handler) reserve(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	tracer := otel.Tracer("inventory-service")
	ctx, span := tracer.Start(ctx, "inventory-service.Reserve")
	defer span.End()

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		http.Error(w, "productId and positive quantity are required", http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.String("product.id", req.ProductID),
		attribute.Int("product.quantity", req.Quantity),
	)

	status, err := h.ledger.Reserve(ctx, req.ProductID, req.Quantity)
	if err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Str("product_id", req.ProductID).Msg("ledger reserve failed")
		http.Error(w, "inventory unavailable", http.StatusInternalServerError)
		return
	}

	logger.Ctx(ctx).Info().
		Str("product_id", req.ProductID).
		Int("quantity", req.Quantity).
		Str("status", string(status)).
		Msg("reserve handled")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reserveResponse{Status: status})
}
