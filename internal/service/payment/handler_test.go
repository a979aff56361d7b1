package payment

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newPaymentServer(t *testing.T, mode Mode) (*httptest.Server, *Simulator) {
	t.Helper()
	s := NewSimulator(mode, rand.New(rand.NewSource(7)))
	mux := http.NewServeMux()
	NewHandler(s).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, s
}

func TestPayEndpointSuccess(t *testing.T) {
	srv, _ := newPaymentServer(t, ModeAlwaysSuccess)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/payments", nil)
	req.Header.Set("X-Order-Id", "order-1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["paymentStatus"] != "SUCCESS" {
		t.Fatalf("paymentStatus = %q, want SUCCESS", body["paymentStatus"])
	}
}

func TestPayEndpointFailure(t *testing.T) {
	srv, _ := newPaymentServer(t, ModeAlwaysFail)

	resp, err := http.Post(srv.URL+"/payments", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestPayEndpointHangExceedsClientDeadline(t *testing.T) {
	srv, s := newPaymentServer(t, ModeAlwaysTimeout)
	s.SetHangDelay(500 * time.Millisecond)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	_, err := client.Post(srv.URL+"/payments", "application/json", nil)
	if err == nil {
		t.Fatal("expected client timeout against hanging payment")
	}
}

func TestModeEndpointSwitchesBehavior(t *testing.T) {
	srv, s := newPaymentServer(t, ModeRandom)

	resp, err := http.Post(srv.URL+"/internal/test/mode", "application/json",
		bytes.NewBufferString(`{"mode":"ALWAYS_FAIL"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mode switch status = %d, want 200", resp.StatusCode)
	}
	if s.Mode() != ModeAlwaysFail {
		t.Fatalf("mode = %q, want ALWAYS_FAIL", s.Mode())
	}

	payResp, err := http.Post(srv.URL+"/payments", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	payResp.Body.Close()
	if payResp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("payment after switch = %d, want 500", payResp.StatusCode)
	}
}

func TestModeEndpointRejectsUnknownMode(t *testing.T) {
	srv, s := newPaymentServer(t, ModeRandom)

	resp, err := http.Post(srv.URL+"/internal/test/mode", "application/json",
		bytes.NewBufferString(`{"mode":"SOMETIMES"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if s.Mode() != ModeRandom {
		t.Fatalf("mode changed to %q on invalid request", s.Mode())
	}
}
