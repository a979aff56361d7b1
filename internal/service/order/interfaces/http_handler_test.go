package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel"

	"meridian/internal/pkg/workerpool"
	"meridian/internal/service/order/application"
	"meridian/internal/service/order/domain"
	"meridian/internal/service/order/infrastructure"
)

type fixedReserver struct{ outcome domain.InventoryOutcome }

func (f fixedReserver) Reserve(ctx context.Context, order *domain.Order) domain.InventoryOutcome {
	return f.outcome
}

type fixedProcessor struct{ outcome domain.PaymentOutcome }

func (f fixedProcessor) Pay(ctx context.Context, order *domain.Order) domain.PaymentOutcome {
	return f.outcome
}

func newTestServer(t *testing.T, inv domain.InventoryOutcome, pay domain.PaymentOutcome) *httptest.Server {
	t.Helper()
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	svc := application.NewOrderApplicationService(
		infrastructure.NewMemoryRepository(),
		fixedReserver{outcome: inv},
		fixedProcessor{outcome: pay},
		nil,
		pool,
		otel.Tracer("test"),
		5*time.Second,
	)
	mux := http.NewServeMux()
	NewOrderHandler(svc).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postOrder(t *testing.T, srv *httptest.Server, body string) (*http.Response, domain.Order) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/orders", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var order domain.Order
	if resp.StatusCode == http.StatusCreated {
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			t.Fatal(err)
		}
	}
	return resp, order
}

// pollTerminal 像真实客户端一样轮询 GET /orders/{id} 直到终态。
func pollTerminal(t *testing.T, srv *httptest.Server, id string) domain.Order {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(fmt.Sprintf("%s/orders/%s", srv.URL, id))
		if err != nil {
			t.Fatal(err)
		}
		var order domain.Order
		err = json.NewDecoder(resp.Body).Decode(&order)
		resp.Body.Close()
		if err != nil {
			t.Fatal(err)
		}
		if order.Status.IsTerminal() {
			return order
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("order %s never reached a terminal state via polling", id)
	return domain.Order{}
}

func TestCreateOrderReturns201Pending(t *testing.T) {
	srv := newTestServer(t, domain.InventoryReserved, domain.PaymentSuccess)

	resp, order := postOrder(t, srv, `{"productId":"A1","quantity":2}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if order.Status != domain.StatusPending {
		t.Fatalf("initial status = %q, want PENDING", order.Status)
	}
	if order.ID == "" {
		t.Fatal("response missing order id")
	}

	final := pollTerminal(t, srv, order.ID)
	if final.Status != domain.StatusConfirmed {
		t.Fatalf("final status = %q, want CONFIRMED", final.Status)
	}
}

func TestCreateOrderEventuallyFailed(t *testing.T) {
	srv := newTestServer(t, domain.InventoryRejected, domain.PaymentSuccess)

	resp, order := postOrder(t, srv, `{"productId":"B1","quantity":50}`)
	if resp.StatusCode != http.StatusCreated {
		// 受理与编排结果解耦：库存必然拒绝也要先拿到 201
		t.Fatalf("status = %d, want 201 even though stock will reject", resp.StatusCode)
	}

	final := pollTerminal(t, srv, order.ID)
	if final.Status != domain.StatusFailed {
		t.Fatalf("final status = %q, want FAILED", final.Status)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	srv := newTestServer(t, domain.InventoryReserved, domain.PaymentSuccess)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"productId":`},
		{"missing product", `{"quantity":1}`},
		{"zero quantity", `{"productId":"A1","quantity":0}`},
		{"negative quantity", `{"productId":"A1","quantity":-1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := postOrder(t, srv, tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestGetOrderUnknownReturns404(t *testing.T) {
	srv := newTestServer(t, domain.InventoryReserved, domain.PaymentSuccess)

	resp, err := http.Get(srv.URL + "/orders/no-such-id")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListOrders(t *testing.T) {
	srv := newTestServer(t, domain.InventoryReserved, domain.PaymentSuccess)

	for i := 0; i < 3; i++ {
		postOrder(t, srv, `{"productId":"A1","quantity":1}`)
	}

	resp, err := http.Get(srv.URL + "/orders")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var orders []domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		t.Fatal(err)
	}
	if len(orders) != 3 {
		t.Fatalf("listed %d orders, want 3", len(orders))
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, domain.InventoryReserved, domain.PaymentSuccess)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", resp.StatusCode)
	}
}
