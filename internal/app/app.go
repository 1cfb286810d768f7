package app

import (
	"context"
	"errors"
	"fmt"

	"blogplatform/internal/cache"
	"blogplatform/internal/config"
	"blogplatform/internal/db"
	"blogplatform/internal/handlers"
	"blogplatform/internal/logger"
	"blogplatform/internal/repository"
	"blogplatform/internal/repository/memory"
	"blogplatform/internal/routes"
	"blogplatform/internal/services"
	"blogplatform/internal/storage"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// App держит роутер и ресурсы, которые надо закрыть при остановке.
type App struct {
	Router  *mux.Router
	closers []func(context.Context) error
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close освобождает ресурсы в обратном порядке.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	store, err := a.initStore(ctx, cfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	files, err := a.initFiles(ctx, cfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	featured := a.initCache(ctx, cfg)

	// Сервисы
	clock := services.SystemClock
	categorySvc := services.NewCategoryService(store.Categories(), clock)
	commentSvc := services.NewCommentService(store.Comments(), store.Likes(), store.Posts(), store.UserContent(), clock)
	postSvc := services.NewPostService(store.Posts(), store.Comments(), store.Likes(), categorySvc, files, featured, clock)
	contentSvc := services.NewUserContentService(store.UserContent(), store.Likes(), commentSvc, files, clock)
	settingsSvc := services.NewAdminSettingsService(store.AdminSettings(), clock)

	// Хендлеры
	debug := cfg.IsDev()
	h := routes.Handlers{
		Health:      handlers.NewHealthHandler(cfg.Storage),
		Posts:       handlers.NewPostHandler(postSvc, files, debug),
		Comments:    handlers.NewCommentHandler(commentSvc, debug),
		UserContent: handlers.NewUserContentHandler(contentSvc, files, debug),
		Categories:  handlers.NewCategoryHandler(categorySvc, debug),
		Admin:       handlers.NewAdminHandler(settingsSvc, contentSvc, debug),
		Uploads:     handlers.NewUploadHandler(files, debug),
	}

	// Маршруты
	a.Router = mux.NewRouter()
	routes.InitRoutes(a.Router, h, cfg.JWTSecret)
	return a, nil
}

func (a *App) initStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Log.Warn("Данные хранятся в памяти и пропадут при перезапуске")
		return memory.New(), nil
	}

	pool, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres (%s): %w", cfg.GetDSNSafe(), err)
	}
	a.onClose(func(context.Context) error {
		pool.Close()
		return nil
	})
	if err := db.Migrate(ctx, pool); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	logger.Log.Info("Подключение к Postgres установлено", zap.String("dsn", cfg.GetDSNSafe()))
	return repository.NewPgStore(pool), nil
}

func (a *App) initFiles(ctx context.Context, cfg *config.Config) (storage.FileStorage, error) {
	limits := storage.Limits{MaxImageSize: cfg.MaxImageSize, MaxVideoSize: cfg.MaxVideoSize}

	if cfg.FileStorage == config.FileStorageGridFS {
		gfs, err := storage.NewGridFSStorage(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoBucket, limits)
		if err != nil {
			return nil, fmt.Errorf("init gridfs storage: %w", err)
		}
		a.onClose(gfs.Close)
		logger.Log.Info("Файлы хранятся в GridFS",
			zap.String("database", cfg.MongoDatabase),
			zap.String("bucket", cfg.MongoBucket),
		)
		return gfs, nil
	}

	local, err := storage.NewLocalStorage(cfg.UploadDir, limits)
	if err != nil {
		return nil, fmt.Errorf("init local storage: %w", err)
	}
	logger.Log.Info("Файлы хранятся на диске", zap.String("dir", cfg.UploadDir))
	return local, nil
}

// initCache: без Redis кэш избранного просто отключается.
func (a *App) initCache(ctx context.Context, cfg *config.Config) cache.Featured {
	if cfg.RedisAddr == "" {
		return cache.Noop{}
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Log.Warn("Redis недоступен, кэш избранного отключён", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return cache.Noop{}
	}
	a.onClose(func(context.Context) error { return client.Close() })
	logger.Log.Info("Кэш избранного в Redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.FeaturedCacheTTL))
	return cache.NewRedisFeatured(client, cfg.FeaturedCacheTTL)
}
