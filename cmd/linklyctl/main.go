package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IgorGrieder/linkly-connector/internal/commands"
	"github.com/IgorGrieder/linkly-connector/internal/config"
	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/logger"
)

var version = "dev"

func main() {
	if err := logger.Init(config.GetEnv("APP_ENV", "production"), config.GetEnv("LOG_LEVEL", "warn")); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
