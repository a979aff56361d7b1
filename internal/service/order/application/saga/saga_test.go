package saga

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"meridian/internal/service/order/domain"
)

type fakeReserver struct {
	outcome domain.InventoryOutcome
	calls   int
}

func (f *fakeReserver) Reserve(ctx context.Context, order *domain.Order) domain.InventoryOutcome {
	f.calls++
	return f.outcome
}

type fakeProcessor struct {
	outcome domain.PaymentOutcome
	calls   int
}

func (f *fakeProcessor) Pay(ctx context.Context, order *domain.Order) domain.PaymentOutcome {
	f.calls++
	return f.outcome
}

func newChain() Handler {
	chain := new(InventoryHandler)
	chain.SetNext(new(PaymentHandler))
	return chain
}

func newOrderContext(inv *fakeReserver, pay *fakeProcessor) *OrderContext {
	return &OrderContext{
		Ctx:       context.Background(),
		Order:     &domain.Order{ID: "order-1", ProductID: "A1", Quantity: 1, Status: domain.StatusPending},
		Tracer:    otel.Tracer("test"),
		Inventory: inv,
		Payment:   pay,
	}
}

func TestChainConfirmsOnReservedAndSuccess(t *testing.T) {
	inv := &fakeReserver{outcome: domain.InventoryReserved}
	pay := &fakeProcessor{outcome: domain.PaymentSuccess}
	orderCtx := newOrderContext(inv, pay)

	if err := newChain().Handle(orderCtx); err != nil {
		t.Fatalf("chain returned error on happy path: %v", err)
	}
	if inv.calls != 1 || pay.calls != 1 {
		t.Fatalf("calls: inventory=%d payment=%d, want 1/1", inv.calls, pay.calls)
	}
	if orderCtx.InventoryOutcome != domain.InventoryReserved {
		t.Errorf("inventory outcome = %q", orderCtx.InventoryOutcome)
	}
	if orderCtx.PaymentOutcome != domain.PaymentSuccess {
		t.Errorf("payment outcome = %q", orderCtx.PaymentOutcome)
	}
	if orderCtx.FailureStep != "" {
		t.Errorf("failure step = %q on success", orderCtx.FailureStep)
	}
}

func TestRejectionStopsChainBeforePayment(t *testing.T) {
	inv := &fakeReserver{outcome: domain.InventoryRejected}
	pay := &fakeProcessor{outcome: domain.PaymentSuccess}
	orderCtx := newOrderContext(inv, pay)

	err := newChain().Handle(orderCtx)
	if !errors.Is(err, ErrStockRejected) {
		t.Fatalf("err = %v, want ErrStockRejected", err)
	}
	// 预占被拒后不允许再触碰支付
	if pay.calls != 0 {
		t.Fatalf("payment called %d times after rejection, want 0", pay.calls)
	}
	if orderCtx.FailureStep != "INVENTORY_REJECTED" {
		t.Errorf("failure step = %q", orderCtx.FailureStep)
	}
	if orderCtx.PaymentOutcome != "" {
		t.Errorf("payment outcome = %q, want unset", orderCtx.PaymentOutcome)
	}
}

func TestPaymentFailureOutcomes(t *testing.T) {
	cases := []struct {
		name     string
		outcome  domain.PaymentOutcome
		wantStep string
	}{
		{"declined", domain.PaymentFailed, "PAYMENT_FAILED"},
		{"timed out", domain.PaymentTimeout, "PAYMENT_TIMEOUT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := &fakeReserver{outcome: domain.InventoryReserved}
			pay := &fakeProcessor{outcome: tc.outcome}
			orderCtx := newOrderContext(inv, pay)

			err := newChain().Handle(orderCtx)
			if !errors.Is(err, ErrPaymentNotCaptured) {
				t.Fatalf("err = %v, want ErrPaymentNotCaptured", err)
			}
			if orderCtx.FailureStep != tc.wantStep {
				t.Errorf("failure step = %q, want %q", orderCtx.FailureStep, tc.wantStep)
			}
			if orderCtx.PaymentOutcome != tc.outcome {
				t.Errorf("payment outcome = %q, want %q", orderCtx.PaymentOutcome, tc.outcome)
			}
		})
	}
}
