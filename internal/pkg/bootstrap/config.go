// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Duration 包装 time.Duration，支持 "2s" / "500ms" 形式的 yaml 配置值。
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", raw)
	}
	*d = Duration(parsed)
	return nil
}

// Std 返回标准库的 time.Duration。
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config 聚合了三个服务共用的运行配置。
// 默认值面向本地一体化运行，可被配置文件与环境变量覆盖。
type Config struct {
	App struct {
		OrderPort     int `yaml:"order_port"`
		PaymentPort   int `yaml:"payment_port"`
		InventoryPort int `yaml:"inventory_port"`

		// 后台编排的 worker 数量。固定大小，不随请求变化。
		WorkerPoolSize int `yaml:"worker_pool_size"`
		// 单个订单编排流程的超时上限，防止单个订单处理卡死
		ProcessingTimeout Duration `yaml:"processing_timeout"`
	} `yaml:"app"`
	Services struct {
		InventoryURL          string   `yaml:"inventory_url"`
		PaymentURL            string   `yaml:"payment_url"`
		PaymentConnectTimeout Duration `yaml:"payment_connect_timeout"`
		PaymentReadTimeout    Duration `yaml:"payment_read_timeout"`
	} `yaml:"services"`
	Infra struct {
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Kafka struct {
			// 为空时通知发布退化为 no-op
			Brokers string `yaml:"brokers"`
			Topic   string `yaml:"topic"`
		} `yaml:"kafka"`
		Mysql struct {
			// 为空时订单存储使用进程内存实现
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			// 为空时库存台账使用进程内存实现
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
	} `yaml:"infra"`
}

var (
	configOnce    sync.Once
	currentConfig *Config
)

// GetCurrentConfig 返回进程级配置，首次调用时加载。
func GetCurrentConfig() *Config {
	configOnce.Do(func() {
		cfg, err := LoadConfig(os.Getenv("CONFIG_PATH"))
		if err != nil {
			// 配置文件损坏时继续用默认值跑起来，但要把原因留在日志里
			cfg = defaultConfig()
			applyEnvOverrides(cfg)
			loadErr = err
		}
		currentConfig = cfg
	})
	return currentConfig
}

// loadErr 记录启动期配置加载失败的原因，由 StartService 打印。
var loadErr error

// LoadConfig 读取 yaml 配置并应用环境变量覆盖。
// path 为空时尝试默认的 config.yaml；文件不存在不算错误。
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	case os.IsNotExist(err):
		// 没有配置文件是合法的本地运行方式
	default:
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.OrderPort = 8081
	cfg.App.PaymentPort = 8082
	cfg.App.InventoryPort = 8083
	cfg.App.WorkerPoolSize = 4
	cfg.App.ProcessingTimeout = Duration(30 * time.Second)
	cfg.Services.InventoryURL = "http://localhost:8083"
	cfg.Services.PaymentURL = "http://localhost:8082"
	cfg.Services.PaymentConnectTimeout = Duration(2 * time.Second)
	cfg.Services.PaymentReadTimeout = Duration(2 * time.Second)
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Kafka.Topic = "order-results"
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	cfg.Services.InventoryURL = getEnv("INVENTORY_URL", cfg.Services.InventoryURL)
	cfg.Services.PaymentURL = getEnv("PAYMENT_URL", cfg.Services.PaymentURL)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.Kafka.Brokers = getEnv("KAFKA_BROKERS", cfg.Infra.Kafka.Brokers)
	cfg.Infra.Mysql.DSN = getEnv("MYSQL_DSN", cfg.Infra.Mysql.DSN)
	cfg.Infra.Redis.Addr = getEnv("REDIS_ADDR", cfg.Infra.Redis.Addr)

	if raw, ok := os.LookupEnv("WORKER_POOL_SIZE"); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.App.WorkerPoolSize = n
		}
	}
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
