package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/lunalog/internal/api"
	"github.com/terraincognita07/lunalog/internal/db"
	"github.com/terraincognita07/lunalog/internal/i18n"
	"github.com/terraincognita07/lunalog/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, env)
		},
	}
}

func runServe(ctx context.Context, env *environment) error {
	cfg := env.cfg
	log := env.logger
	if err := cfg.RequireSecretKey(); err != nil {
		return err
	}
	location := cfg.Location()
	time.Local = location

	database, err := env.openDatabase(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database, log)
	repos := db.NewRepositories(database)

	handler, err := api.NewHandler(repos, api.Options{
		SecretKey:     cfg.SecretKey,
		Location:      location,
		CookieSecure:  cfg.CookieSecure,
		OverlapPolicy: cfg.Overlap(),
		Logger:        log.Named("api"),
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Lunalog",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(ctx)
	defer cancelLifecycle()
	if cfg.Reminders.Enabled {
		if err := startReminders(lifecycleCtx, env, repos, location); err != nil {
			return err
		}
	}

	go func() {
		<-ctx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("lunalog listening",
		zap.String("addr", "0.0.0.0:"+cfg.Port),
		zap.String("db", cfg.DBPath),
		zap.String("tz", location.String()),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func startReminders(ctx context.Context, env *environment, repos *db.Repositories, location *time.Location) error {
	reminders := env.cfg.Reminders
	var notifier services.Notifier = services.NewLogNotifier(env.logger.Named("reminders"))
	if reminders.TelegramBotToken != "" {
		notifier = services.NewTelegramNotifier(reminders.TelegramBotToken, reminders.TelegramChatID)
	}

	source := services.NewReminderService(repos.Settings, repos.Users, repos.Periods, location).
		WithLanguage(i18n.Default(), reminders.Language)
	scheduler := services.NewReminderScheduler(source, notifier, env.logger.Named("reminders"), location)
	return scheduler.Start(ctx, reminders.Schedule)
}

func closeDatabase(database *gorm.DB, log *zap.Logger) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("close database failed", zap.Error(err))
	}
}
