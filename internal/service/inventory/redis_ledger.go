// internal/service/inventory/redis_ledger.go
package inventory

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// 检查与扣减必须在 Redis 侧原子完成，否则并发预占会超卖。
const reserveScript = `
-- KEYS[1]: 库存 Key, 例如: inventory:stock:{A1}
-- ARGV[1]: 请求数量
local stock = tonumber(redis.call('get', KEYS[1]))
if stock and stock >= tonumber(ARGV[1]) then
    redis.call('decrby', KEYS[1], ARGV[1])
    return 1
end
return 0
`

// RedisLedger 用 Lua 脚本在 Redis 中原子地检查并扣减库存，
// 供多实例部署的库存边界选用；单实例默认走 MemoryLedger。
type RedisLedger struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{
		client: client,
		script: redis.NewScript(reserveScript),
	}
}

func (l *RedisLedger) Reserve(ctx context.Context, productID string, quantity int) (Status, error) {
	key := stockKey(productID)

	result, err := l.script.Run(ctx, l.client, []string{key}, quantity).Int64()
	if err != nil {
		return StatusOutOfStock, errors.Wrap(err, "run reserve script")
	}
	if result == 1 {
		return StatusReserved, nil
	}
	return StatusOutOfStock, nil
}

// Seed 初始化库存，启动与测试用。
func (l *RedisLedger) Seed(ctx context.Context, stock map[string]int) error {
	pipe := l.client.Pipeline()
	for productID, quantity := range stock {
		pipe.Set(ctx, stockKey(productID), quantity, 0)
	}
	_, err := pipe.Exec(ctx)
	return errors.Wrap(err, "seed stock")
}

func stockKey(productID string) string {
	return fmt.Sprintf("inventory:stock:{%s}", productID)
}
