package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/GoArmGo/UserDirectory/internal/adapter/storage/minio"
	"github.com/GoArmGo/UserDirectory/internal/adapter/userapi"
	"github.com/GoArmGo/UserDirectory/internal/app"
	"github.com/GoArmGo/UserDirectory/internal/config"
	"github.com/GoArmGo/UserDirectory/internal/console"
	"github.com/GoArmGo/UserDirectory/internal/core/ports"
	"github.com/GoArmGo/UserDirectory/internal/database/client"
	"github.com/GoArmGo/UserDirectory/internal/database/postgres"
	"github.com/GoArmGo/UserDirectory/internal/database/storage"
	"github.com/GoArmGo/UserDirectory/internal/directory"
	"github.com/GoArmGo/UserDirectory/internal/handler"
	"github.com/GoArmGo/UserDirectory/internal/rabbitmq"
	"github.com/GoArmGo/UserDirectory/internal/usecase"
	"gorm.io/gorm"
)

type IO struct {
	In  io.Reader
	Out io.Writer
}

// BuildApp инициализирует зависимости, нужные выбранному режиму, и возвращает готовый App.
// При ошибке уже открытые ресурсы закрываются.
func BuildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, mode string, stdio IO) (*app.App, error) {
	var (
		components app.Components
		err        error
	)
	switch mode {
	case app.ModeServer:
		err = buildServer(cfg, logger, &components)
	case app.ModeWorker:
		err = buildWorker(ctx, cfg, logger, &components)
	default:
		buildClient(cfg, logger, stdio, &components)
	}
	if err != nil {
		for i := len(components.Closers) - 1; i >= 0; i-- {
			_ = components.Closers[i]()
		}
		return nil, err
	}

	logger.Debug("[container] all dependencies initialized", "mode", mode)
	return app.NewApp(cfg, logger, components), nil
}

// openDatabase: пул sqlx, миграции, GORM поверх того же пула
func openDatabase(cfg *config.Config, logger *slog.Logger, components *app.Components) (*client.Client, *gorm.DB, error) {
	dbClient, err := client.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	components.Closers = append(components.Closers, dbClient.Close)

	if cfg.DBAutoMigrate {
		if err := postgres.ApplyMigrations(cfg.DatabaseURL, logger); err != nil {
			return nil, nil, err
		}
	}

	gormDB, err := postgres.OpenGorm(dbClient.DB.DB, logger)
	if err != nil {
		return nil, nil, err
	}
	return dbClient, gormDB, nil
}

func buildServer(cfg *config.Config, logger *slog.Logger, components *app.Components) error {
	dbClient, gormDB, err := openDatabase(cfg, logger, components)
	if err != nil {
		return err
	}

	var publisher ports.UserEventPublisher
	if cfg.RabbitMQ.RabbitMQURL != "" {
		rabbitClient, err := rabbitmq.NewClient(cfg, logger)
		if err != nil {
			return err
		}
		components.Closers = append(components.Closers, func() error { rabbitClient.Close(); return nil })
		publisher = rabbitClient
	} else {
		logger.Info("RABBITMQ_URL is not set, user events will not be published")
		publisher = rabbitmq.NewNopPublisher(logger)
	}

	userUseCase := usecase.NewUserUseCase(storage.NewUserStorage(gormDB, logger), publisher, logger)

	components.HTTPHandler = handler.NewRouter(
		handler.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
		},
		handler.NewUserHandler(userUseCase, logger),
		dbClient,
		logger,
	)
	return nil
}

func buildWorker(ctx context.Context, cfg *config.Config, logger *slog.Logger, components *app.Components) error {
	_, gormDB, err := openDatabase(cfg, logger, components)
	if err != nil {
		return err
	}

	rabbitClient, err := rabbitmq.NewClient(cfg, logger)
	if err != nil {
		return err
	}
	components.Closers = append(components.Closers, func() error { rabbitClient.Close(); return nil })

	fileStorage, err := minio.NewMinioClient(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	components.ExportUseCase = usecase.NewExportUseCase(storage.NewUserStorage(gormDB, logger), fileStorage, cfg.ExportPrefix, logger)
	components.Consumer = rabbitClient
	return nil
}

func buildClient(cfg *config.Config, logger *slog.Logger, stdio IO, components *app.Components) {
	session := directory.NewSession(userapi.NewClient(cfg.APIBaseURL, nil))
	components.Session = session
	components.Console = console.New(session, stdio.In, stdio.Out, logger)
}
