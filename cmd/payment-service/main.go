// cmd/payment-service/main.go
package main

import (
	"meridian/internal/pkg/bootstrap"
	"meridian/internal/service/payment"
)

func main() {
	cfg := bootstrap.GetCurrentConfig()

	simulator := payment.NewSimulator(payment.ModeRandom, nil)
	handler := payment.NewHandler(simulator)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: "payment-service",
		Port:        cfg.App.PaymentPort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
