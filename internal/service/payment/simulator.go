// internal/service/payment/simulator.go
package payment

import (
	"math/rand"
	"sync"
	"time"
)

// Mode 控制模拟器的行为。
// 测试通过内部接口切换到确定性模式，生产（演示）默认 RANDOM。
type Mode string

const (
	ModeRandom        Mode = "RANDOM"
	ModeAlwaysSuccess Mode = "ALWAYS_SUCCESS"
	ModeAlwaysFail    Mode = "ALWAYS_FAIL"
	ModeAlwaysTimeout Mode = "ALWAYS_TIMEOUT"
)

// ParseMode 校验并解析模式字符串。
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeRandom, ModeAlwaysSuccess, ModeAlwaysFail, ModeAlwaysTimeout:
		return Mode(raw), true
	}
	return "", false
}

// Result 是一次模拟支付的产出：响应码、响应体和应答前的延迟。
// Body 为 nil 表示不写响应体。
type Result struct {
	StatusCode int
	Body       map[string]string
	Delay      time.Duration
}

// Simulator 模拟一个不可靠的外部支付依赖。
//
// 行为刻意非确定：有时成功、有时失败、有时挂起直到调用方超时。
// 这不是业务逻辑，是环境现实。模式作为显式配置对象注入，
// 不是全局开关；随机源同样注入，测试可以完全确定化。
type Simulator struct {
	mu        sync.RWMutex
	mode      Mode
	hangDelay time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewSimulator 创建模拟器。rng 为 nil 时使用时间种子。
func NewSimulator(mode Mode, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		mode: mode,
		rng:  rng,
		// 比任何合理的客户端读取期限都要长
		hangDelay: 5 * time.Second,
	}
}

// Mode 返回当前模式。
func (s *Simulator) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode 切换模式，立即对后续请求生效。
func (s *Simulator) SetMode(mode Mode) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// SetHangDelay 调整挂起路径的时长，测试用。
func (s *Simulator) SetHangDelay(d time.Duration) {
	s.mu.Lock()
	s.hangDelay = d
	s.mu.Unlock()
}

// Process 产出一次支付结果。随机模式的分布：
//
//	0–69  → 成功（100–600ms 延迟）
//	70–89 → 挂起 5s 后成功：调用方早已超时，但远端确实完成了扣款。
//	        这正是 TIMEOUT ≠ FAILED 的原因。
//	90–99 → HTTP 500
func (s *Simulator) Process(orderID string) Result {
	s.mu.RLock()
	mode := s.mode
	hang := s.hangDelay
	s.mu.RUnlock()

	switch mode {
	case ModeAlwaysSuccess:
		return Result{StatusCode: 200, Body: successBody()}
	case ModeAlwaysFail:
		return Result{StatusCode: 500}
	case ModeAlwaysTimeout:
		return Result{StatusCode: 200, Body: successBody(), Delay: hang}
	}

	outcome := s.intn(100)
	switch {
	case outcome < 70:
		delay := time.Duration(s.intn(500)+100) * time.Millisecond
		return Result{StatusCode: 200, Body: successBody(), Delay: delay}
	case outcome < 90:
		return Result{StatusCode: 200, Body: successBody(), Delay: hang}
	default:
		return Result{StatusCode: 500}
	}
}

func (s *Simulator) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

func successBody() map[string]string {
	return map[string]string{"paymentStatus": "SUCCESS"}
}
