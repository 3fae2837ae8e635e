package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"synnergy-network/pkg/config"
	"synnergy-network/walletserver"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	srv, err := walletserver.New(cfg)
	if err != nil {
		logrus.Fatalf("build server: %v", err)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
