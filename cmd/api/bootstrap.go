package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petnfc-api/internal/config"
	"github.com/petnfc-api/internal/infrastructure/dynamo"
	"github.com/petnfc-api/internal/pkg/logger"
)

func bootstrapCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Creates the DynamoDB tables if they do not exist",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			client, err := dynamo.NewClient(ctx, cfg)
			if err != nil {
				logger.Fatal(ctx, "could not create dynamodb client", zap.Error(err))
			}
			dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		},
	}
}
