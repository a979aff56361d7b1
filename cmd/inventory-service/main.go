// cmd/inventory-service/main.go
package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"

	"meridian/internal/pkg/bootstrap"
	"meridian/internal/service/inventory"
)

func main() {
	cfg := bootstrap.GetCurrentConfig()

	ledger := buildLedger(cfg)
	handler := inventory.NewHandler(ledger)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: "inventory-service",
		Port:        cfg.App.InventoryPort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}

func buildLedger(cfg *bootstrap.Config) inventory.Ledger {
	if addr := cfg.Infra.Redis.Addr; addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		ledger := inventory.NewRedisLedger(client)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ledger.Seed(ctx, inventory.DefaultStock()); err != nil {
			zlog.Fatal().Err(err).Msg("failed to seed redis stock")
		}
		zlog.Info().Str("addr", addr).Msg("inventory ledger: redis")
		return ledger
	}
	zlog.Info().Msg("inventory ledger: in-memory")
	return inventory.NewMemoryLedger(inventory.DefaultStock())
}
