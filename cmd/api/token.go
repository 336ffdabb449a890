package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petnfc-api/internal/config"
	"github.com/petnfc-api/internal/domain"
	jwtinfra "github.com/petnfc-api/internal/infrastructure/jwt"
	"github.com/petnfc-api/internal/pkg/logger"
)

// tokenCommand signs an access token with the configured key pair.
func tokenCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generates an access token for given user ID",
		Run: func(cmd *cobra.Command, args []string) {
			userID, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")

			p, err := jwtinfra.NewProvider(cfg)
			if err != nil {
				logger.Fatal(context.Background(), "could not load jwt keys", zap.Error(err))
			}
			signed, err := p.Sign(userID, role)
			if err != nil {
				logger.Fatal(context.Background(), "could not sign JWT", zap.Error(err))
			}

			fmt.Println(signed) //nolint: forbidigo
		},
	}

	cmd.Flags().String("user", "", "user ID to put in the token")
	cmd.Flags().String("role", domain.RoleUser, "role claim (user or admin)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
