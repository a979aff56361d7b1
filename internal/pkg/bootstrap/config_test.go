package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}

	if cfg.App.OrderPort != 8081 || cfg.App.PaymentPort != 8082 || cfg.App.InventoryPort != 8083 {
		t.Fatalf("unexpected default ports: %+v", cfg.App)
	}
	if cfg.App.WorkerPoolSize != 4 {
		t.Fatalf("worker pool size = %d, want 4", cfg.App.WorkerPoolSize)
	}
	if cfg.Services.PaymentConnectTimeout.Std() != 2*time.Second {
		t.Fatalf("payment connect timeout = %v, want 2s", cfg.Services.PaymentConnectTimeout.Std())
	}
	if cfg.Services.PaymentReadTimeout.Std() != 2*time.Second {
		t.Fatalf("payment read timeout = %v, want 2s", cfg.Services.PaymentReadTimeout.Std())
	}
	if cfg.Infra.Kafka.Topic != "order-results" {
		t.Fatalf("kafka topic = %q", cfg.Infra.Kafka.Topic)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
app:
  order_port: 9091
  worker_pool_size: 8
  processing_timeout: 45s
services:
  payment_url: "http://payments:9090"
  payment_read_timeout: 500ms
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.App.OrderPort != 9091 {
		t.Errorf("order port = %d, want 9091", cfg.App.OrderPort)
	}
	if cfg.App.WorkerPoolSize != 8 {
		t.Errorf("worker pool size = %d, want 8", cfg.App.WorkerPoolSize)
	}
	if cfg.App.ProcessingTimeout.Std() != 45*time.Second {
		t.Errorf("processing timeout = %v, want 45s", cfg.App.ProcessingTimeout.Std())
	}
	if cfg.Services.PaymentURL != "http://payments:9090" {
		t.Errorf("payment url = %q", cfg.Services.PaymentURL)
	}
	if cfg.Services.PaymentReadTimeout.Std() != 500*time.Millisecond {
		t.Errorf("payment read timeout = %v, want 500ms", cfg.Services.PaymentReadTimeout.Std())
	}
	// 未覆盖的字段保持默认
	if cfg.App.PaymentPort != 8082 {
		t.Errorf("payment port = %d, want default 8082", cfg.App.PaymentPort)
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("app: [not a mapping"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INVENTORY_URL", "http://inv.test:8083")
	t.Setenv("PAYMENT_URL", "http://pay.test:8082")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("WORKER_POOL_SIZE", "16")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Services.InventoryURL != "http://inv.test:8083" {
		t.Errorf("inventory url = %q", cfg.Services.InventoryURL)
	}
	if cfg.Services.PaymentURL != "http://pay.test:8082" {
		t.Errorf("payment url = %q", cfg.Services.PaymentURL)
	}
	if cfg.Infra.Kafka.Brokers != "broker1:9092,broker2:9092" {
		t.Errorf("kafka brokers = %q", cfg.Infra.Kafka.Brokers)
	}
	if cfg.App.WorkerPoolSize != 16 {
		t.Errorf("worker pool size = %d, want 16", cfg.App.WorkerPoolSize)
	}
}

func TestEnvOverrideInvalidPoolSizeIgnored(t *testing.T) {
	t.Setenv("WORKER_POOL_SIZE", "zero")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.WorkerPoolSize != 4 {
		t.Fatalf("worker pool size = %d, want default 4", cfg.App.WorkerPoolSize)
	}
}

func TestDurationUnmarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  processing_timeout: nonsense\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
