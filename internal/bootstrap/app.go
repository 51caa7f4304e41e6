package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hange-backend/internal/analysis"
	"hange-backend/internal/cache"
	"hange-backend/internal/documents"
	"hange-backend/internal/llm"
	openai "hange-backend/internal/llm/openai"
	"hange-backend/internal/shared/config"
	"hange-backend/internal/shared/server"
	"hange-backend/internal/shared/storage/db"
	"hange-backend/internal/shared/storage/object"
	localstore "hange-backend/internal/shared/storage/object/local"
	s3store "hange-backend/internal/shared/storage/object/s3"
	"hange-backend/internal/shared/telemetry"
)

// App holds shared dependencies for the API server and CLIs.
type App struct {
	Config        config.Config
	Logger        *zap.Logger
	Router        *gin.Engine
	DB            *sql.DB
	Store         object.ObjectStore
	Cache         cache.Store
	DocumentsRepo documents.Repo
	DocumentsSvc  *documents.Service
	AnalysisSvc   *analysis.Service

	closers []func() error
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	logger, err := telemetry.NewLogger(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	ctx := context.Background()
	app := &App{Config: cfg, Logger: logger}

	if err := app.buildDB(ctx); err != nil {
		return nil, err
	}
	if err := app.buildStore(ctx); err != nil {
		return nil, err
	}
	if err := app.buildCache(ctx); err != nil {
		return nil, err
	}
	app.buildServices()

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Logger: logger,
		Handlers: []server.RouteRegistrar{
			analysis.NewHandler(app.AnalysisSvc, app.DocumentsSvc, app.Cache),
			documents.NewHandler(app.DocumentsSvc),
		},
	})

	return app, nil
}

// Close releases long-lived resources in reverse creation order.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *App) buildDB(ctx context.Context) error {
	if strings.TrimSpace(a.Config.DatabaseURL) == "" {
		if isDevLike(a.Config.Env) {
			a.Logger.Info("DATABASE_URL empty, using in-memory repositories")
			return nil
		}
		return fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, a.Config.DatabaseURL, opts)
	if err != nil {
		if isDevLike(a.Config.Env) {
			a.Logger.Warn("database connect failed, using in-memory repositories", zap.Error(err))
			return nil
		}
		return err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return fmt.Errorf("run migrations: %w", err)
	}

	a.DB = sqlDB
	a.closers = append(a.closers, sqlDB.Close)
	return nil
}

func (a *App) buildStore(ctx context.Context) error {
	switch a.Config.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, a.Config.AWSRegion, a.Config.S3Bucket, a.Config.S3Prefix, a.Config.SSEKMSKeyID)
		if err != nil {
			return fmt.Errorf("build s3 store: %w", err)
		}
		a.Store = store
	default:
		a.Store = localstore.New(a.Config.LocalStoreDir)
	}
	return nil
}

func (a *App) buildCache(ctx context.Context) error {
	switch a.Config.CacheDriver {
	case "postgres":
		if a.DB == nil {
			a.Logger.Warn("cache driver postgres without database, using memory cache")
			a.Cache = cache.NewMemoryStore()
			return nil
		}
		a.Cache = &cache.PGStore{DB: a.DB}
	case "memory":
		a.Cache = cache.NewMemoryStore()
	default:
		store, err := cache.OpenSQLite(ctx, a.Config.CachePath)
		if err != nil {
			return fmt.Errorf("open sqlite cache: %w", err)
		}
		a.Cache = store
		a.closers = append(a.closers, store.Close)
	}
	return nil
}

func (a *App) buildServices() {
	if a.DB != nil {
		a.DocumentsRepo = &documents.PGRepo{DB: a.DB}
	} else {
		a.DocumentsRepo = documents.NewMemoryRepo()
	}
	a.DocumentsSvc = &documents.Service{Store: a.Store, Repo: a.DocumentsRepo}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); apiKey != "" {
		client, err := openai.NewClient(apiKey, a.Config.LLMModel, a.Config.LLMTimeout)
		if err != nil {
			a.Logger.Warn("openai client init failed, rule-based extraction only", zap.Error(err))
		} else {
			llmClient = client
		}
	} else {
		a.Logger.Info("OPENAI_API_KEY not set, rule-based extraction only")
	}

	thresholds, err := analysis.NewThresholds(a.Config.ConfidenceThreshold, a.Config.ReviewThreshold)
	if err != nil {
		a.Logger.Warn("invalid thresholds in config, using defaults", zap.Error(err))
		thresholds = analysis.DefaultThresholds()
	}

	extractor := analysis.NewExtractor(llmClient, thresholds, a.Config.RuleConfidence, a.Config.ContentWindow, a.Logger)
	a.AnalysisSvc = analysis.NewService(a.Cache, extractor, thresholds, a.Logger)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
