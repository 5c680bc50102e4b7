package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/UserDirectory/internal/config"
	"github.com/GoArmGo/UserDirectory/internal/console"
	"github.com/GoArmGo/UserDirectory/internal/core/ports"
	"github.com/GoArmGo/UserDirectory/internal/directory"
	"github.com/GoArmGo/UserDirectory/internal/usecase"
)

// Режимы запуска
const (
	ModeServer = "server"
	ModeWorker = "worker"
	ModeList   = "list"
	ModeCreate = "create"
	ModeUpdate = "update"
	ModeDelete = "delete"
)

// Components собирает di-контейнер для выбранного режима.
// Незаполненные поля режиму не нужны.
type Components struct {
	HTTPHandler   http.Handler
	ExportUseCase usecase.ExportUseCase
	Consumer      ports.UserEventConsumer
	Console       *console.Console
	Session       *directory.Session

	// закрываются в Shutdown в обратном порядке
	Closers []func() error
}

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	components Components
}

func NewApp(cfg *config.Config, logger *slog.Logger, components Components) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		components: components,
	}
}

// Logger возвращает основной логгер приложения
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run запускает приложение в заданном режиме и блокируется до его завершения.
// Серверные режимы работают до SIGINT/SIGTERM, клиентские выполняют одну команду.
func (a *App) Run(ctx context.Context, mode string, opts ClientOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Debug("running", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.cfg, a.components.HTTPHandler, a.logger)
	case ModeWorker:
		err = runWorker(ctx, a.components.ExportUseCase, a.components.Consumer, a.logger)
	case ModeList, ModeCreate, ModeUpdate, ModeDelete:
		err = runClient(ctx, a.components.Console, a.components.Session, mode, opts)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте server, worker, list, create, update или delete)", mode)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Warn("shutdown finished with errors", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var firstErr error
	for i := len(a.components.Closers) - 1; i >= 0; i-- {
		if err := a.components.Closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.components.Closers = nil
	return firstErr
}
