// Package main is the petnfc API entrypoint. It loads configuration, sets up
// logging and dispatches to the serve, bootstrap, geo and token subcommands.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petnfc-api/internal/config"
	"github.com/petnfc-api/internal/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "petnfc-api",
		Short: "Pet NFC tag backend",
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("could not load config: ", err)
	}

	logger.Setup(cfg.AppEnv)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(cfg),
		bootstrapCommand(cfg),
		geoCommand(cfg),
		tokenCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
