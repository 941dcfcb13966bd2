package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"activity_srv/db"
	"activity_srv/internal/activity"
	"activity_srv/internal/config"
	"activity_srv/internal/database"
	"activity_srv/internal/server"
	"activity_srv/internal/storage"
	"activity_srv/internal/templates"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Поставщики зависимостей
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDatabase,
			provideStorage,
			provideLoader,
			database.NewExecutor,
			provideActivities,
			server.NewServer,
		),

		// Хуки жизненного цикла
		fx.Invoke(registerLifecycleHooks),
		fx.NopLogger,
	)

	// Запуск приложения с остановкой
	runWithGracefulShutdown(app)
}

// provideConfig загружает и предоставляет конфигурацию приложения
func provideConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// provideLogger создает и настраивает логгер на основе конфигурации
func provideLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()

	// Устанавливаем уровень логирования
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
		logger.WithError(err).Warn("Неверный уровень логирования, используется info")
	}
	logger.SetLevel(level)

	// Устанавливаем формат вывода
	switch cfg.Logging.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	logger.WithField("config", cfg.String()).Info("Запуск сервиса активностей")
	return logger
}

// provideDatabase открывает пул соединений, пул закрывается при остановке
func provideDatabase(lc fx.Lifecycle, cfg config.Config, logger *logrus.Logger) (database.Pool, database.Dialect, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, dialect, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Закрытие пула соединений")
			pool.Close()
			return nil
		},
	})
	return pool, dialect, nil
}

// provideStorage создает хранилище шаблонов, встроенные шаблоны берутся из db
func provideStorage(cfg config.Config, logger *logrus.Logger) (storage.Storage, error) {
	return storage.NewStorageFromConfig(cfg, db.Templates(), logger)
}

// provideLoader создает загрузчик шаблонов для диалекта БД
func provideLoader(st storage.Storage, dialect database.Dialect, logger *logrus.Logger) *templates.Loader {
	return templates.NewLoader(st, dialect.Name(), logger)
}

// provideActivities собирает обработчики лент
func provideActivities(
	cfg config.Config,
	loader *templates.Loader,
	executor *database.Executor,
	logger *logrus.Logger,
) (*activity.Service, error) {
	return activity.NewService(cfg.Activities, loader, executor, logger, nil)
}

// registerLifecycleHooks настраивает хуки жизненного цикла приложения
func registerLifecycleHooks(
	srv *server.Server,
	loader *templates.Loader,
	cfg config.Config,
	logger *logrus.Logger,
	lc fx.Lifecycle,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			refs, err := loader.Available(ctx)
			if err != nil {
				logger.WithError(err).Warn("Не удалось получить список шаблонов")
			} else {
				logger.WithField("count", len(refs)).Info("Шаблоны доступны")
				for _, ref := range refs {
					logger.WithField("template", ref.String()).Debug("Шаблон")
				}
			}

			logger.Info("Запуск HTTP сервера")
			go func() {
				if err := srv.Start(cfg.Server.Address); err != nil {
					logger.WithError(err).Error("Не удалось запустить HTTP сервер")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Завершение работы HTTP сервера")
			return srv.Shutdown(ctx)
		},
	})
}

// runWithGracefulShutdown обрабатывает жизненный цикл приложения с обработкой сигналов
func runWithGracefulShutdown(app *fx.App) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Настраиваем обработку сигналов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	startCtx, startCancel := context.WithTimeout(ctx, 15*time.Second)
	defer startCancel()

	if err := app.Start(startCtx); err != nil {
		logrus.WithError(err).Fatal("Не удалось запустить приложение")
	}

	<-quit
	logrus.Info("Получен сигнал завершения работы")

	// Грациозное завершение с таймаутом
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		logrus.WithError(err).Error("Ошибка при завершении работы")
		os.Exit(1)
	}

	logrus.Info("Сервис активностей остановлен корректно")
}
