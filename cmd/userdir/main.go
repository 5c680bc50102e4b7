package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GoArmGo/UserDirectory/internal/app"
	"github.com/GoArmGo/UserDirectory/internal/config"
	"github.com/GoArmGo/UserDirectory/internal/di"
	"github.com/GoArmGo/UserDirectory/internal/logger"
)

func main() {
	mode := flag.String("mode", app.ModeServer, "Режим запуска: server, worker, list, create, update или delete")

	var opts app.ClientOptions
	flag.StringVar(&opts.Search, "search", "", "list: строка поиска по имени, email и телефону")
	flag.StringVar(&opts.Sort, "sort", "", "list: колонка сортировки (fullName, email, phone, role)")
	flag.StringVar(&opts.Order, "order", "", "list: направление сортировки (asc, desc)")
	flag.IntVar(&opts.Page, "page", 1, "list: номер страницы, с единицы")
	flag.IntVar(&opts.Size, "size", 10, "list: записей на странице, 0 = все")
	flag.Int64Var(&opts.ID, "id", 0, "update/delete: id пользователя")
	flag.StringVar(&opts.Data, "data", "", "create/update: JSON формы")
	flag.Parse()

	// bootstrap-логгер (используется только на этапе инициализации т.к еще не создал slogger)
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrapLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateFor(*mode); err != nil {
		bootstrapLogger.Error("invalid config", "mode", *mode, "error", err)
		os.Exit(1)
	}

	slogCfg := logger.SlogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat}
	if *mode != app.ModeServer && *mode != app.ModeWorker {
		// stdout занят таблицей
		slogCfg.Output = os.Stderr
	}
	slogger := logger.NewSlog(slogCfg)
	slogger.Debug("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat, "mode", *mode)

	ctx := context.Background()

	application, err := di.BuildApp(ctx, cfg, slogger, *mode, di.IO{In: os.Stdin, Out: os.Stdout})
	if err != nil {
		slogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx, *mode, opts); err != nil {
		slogger.Error("application run failed", "error", err)
		os.Exit(1)
	}

	slogger.Debug("application stopped")
}
