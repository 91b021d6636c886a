package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agenthands/autoflow/internal/app"
	"go.uber.org/zap"
)

func main() {
	cfg, err := app.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Server().Run(ctx, ":"+cfg.Server.Port); err != nil {
		a.Logger.Fatal("server stopped", zap.Error(err))
	}
}
