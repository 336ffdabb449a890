package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petnfc-api/internal/application/geo"
	"github.com/petnfc-api/internal/application/notification"
	"github.com/petnfc-api/internal/application/otp"
	"github.com/petnfc-api/internal/application/scan"
	"github.com/petnfc-api/internal/application/user"
	"github.com/petnfc-api/internal/config"
	"github.com/petnfc-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/petnfc-api/internal/infrastructure/jwt"
	"github.com/petnfc-api/internal/infrastructure/realtime"
	"github.com/petnfc-api/internal/infrastructure/smtp"
	"github.com/petnfc-api/internal/infrastructure/sns"
	"github.com/petnfc-api/internal/pkg/logger"
	"github.com/petnfc-api/internal/pkg/task"
	transporthttp "github.com/petnfc-api/internal/transport/http"
)

func setupServer(ctx context.Context, cfg *config.Config, deps *transporthttp.Deps) func(ctx context.Context) {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.AppPort),
		Handler:           transporthttp.NewRouter(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the API server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			catalog, err := loadCatalog(ctx, cfg)
			if err != nil {
				logger.Fatal(ctx, "could not load geo datasets", zap.Error(err))
			}

			dynamoClient, err := dynamo.NewClient(ctx, cfg)
			if err != nil {
				logger.Fatal(ctx, "could not create dynamodb client", zap.Error(err))
			}
			if bootstrap, _ := cmd.Flags().GetBool("bootstrap"); bootstrap {
				dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
			}
			userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)

			jwtProvider, err := jwtinfra.NewProvider(cfg)
			if err != nil {
				logger.Fatal(ctx, "could not load jwt keys", zap.Error(err))
			}

			notifier, err := smtp.NewNotifier(smtp.NewMailer(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not parse email templates", zap.Error(err))
			}

			var smsSender sns.SMSSender
			if s, err := sns.NewSender(ctx, cfg); err == nil {
				smsSender = s
			} else {
				logger.Warn(ctx, "sms delivery disabled", zap.Error(err))
			}

			loc, err := time.LoadLocation(cfg.OTP.Timezone)
			if err != nil {
				logger.Fatal(ctx, "invalid otp timezone", zap.Error(err))
			}

			runner := task.NewRunner(cfg.Notification.TaskTimeout)
			hub := realtime.NewHub(realtime.DefaultWriteTimeout)

			notifSvc := notification.NewService(notification.ServiceDeps{
				Repo:   dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
				Pusher: hub,
				Tasks:  runner,
			})

			stopWebserver := setupServer(ctx, cfg, &transporthttp.Deps{
				Geo:   geo.NewService(catalog),
				Users: user.NewService(user.ServiceDeps{UserRepo: userRepo, JWTProvider: jwtProvider}),
				OTP: otp.NewService(otp.ServiceDeps{
					UserRepo:  userRepo,
					Mailer:    notifier,
					SMSSender: smsSender,
					Tasks:     runner,
					Options: otp.Options{
						Issuer:          cfg.OTP.Issuer,
						Step:            cfg.OTP.Step,
						RemainingStep:   cfg.OTP.RemainingStep,
						ExpiryWindow:    cfg.OTP.ExpiryWindow,
						Location:        loc,
						ConsumeOnVerify: cfg.OTP.ConsumeOnVerify,
					},
				}),
				Notifications: notifSvc,
				Scans: scan.NewService(scan.ServiceDeps{
					PetRepo:       dynamo.NewPetRepo(dynamoClient, cfg.DynamoTables.Pets),
					ScanRepo:      dynamo.NewScanRepo(dynamoClient, cfg.DynamoTables.Scans),
					UserRepo:      userRepo,
					Notifications: notifSvc,
					Mailer:        notifier,
					Tasks:         runner,
					MapLinkBase:   cfg.Notification.MapLinkBase,
				}),
				Hub:    hub,
				Tokens: jwtProvider,
			})

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			hub.CloseAll()
			if err := runner.Wait(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "background tasks still running at exit", zap.Error(err))
			}
		},
	}

	cmd.Flags().Bool("bootstrap", false, "Create missing DynamoDB tables before serving")

	return cmd
}
