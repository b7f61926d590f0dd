package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/ai"
	googleauth "resume-builder-backend/internal/auth"
	"resume-builder-backend/internal/imagekit"
	"resume-builder-backend/internal/llm"
	"resume-builder-backend/internal/llm/openai"
	"resume-builder-backend/internal/resumes"
	"resume-builder-backend/internal/shared/config"
	"resume-builder-backend/internal/shared/server"
	"resume-builder-backend/internal/shared/storage/db"
	"resume-builder-backend/internal/shared/storage/object"
	localstore "resume-builder-backend/internal/shared/storage/object/local"
	s3store "resume-builder-backend/internal/shared/storage/object/s3"
	"resume-builder-backend/internal/shared/telemetry"
	"resume-builder-backend/internal/users"
)

// App holds the wired dependency graph.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	UsersRepo   users.Repo
	ResumesRepo resumes.Repo

	UsersService   *users.Service
	ResumesService *resumes.Service
	AIService      *ai.Service

	UsersHandler   *users.Handler
	ResumesHandler *resumes.Handler
	AIHandler      *ai.Handler
	GoogleAuth     *googleauth.GoogleService
}

// Build wires repositories, services, and handlers from configuration.
// Without a reachable database in dev, in-memory repositories are used so the
// service still boots.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if sqlDB != nil {
		app.UsersRepo = &users.PGRepo{DB: sqlDB}
		app.ResumesRepo = &resumes.PGRepo{DB: sqlDB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
	}

	app.UsersService = &users.Service{Repo: app.UsersRepo}
	app.ResumesService = &resumes.Service{
		Repo:          app.ResumesRepo,
		Images:        buildImageClient(cfg),
		ImageFolder:   cfg.ImageKitFolder,
		UploadTimeout: imagekit.DefaultTimeout,
	}
	app.AIService = &ai.Service{
		LLM:     buildLLM(cfg),
		Resumes: app.ResumesService,
		Store:   store,
	}

	app.UsersHandler = users.NewHandler(app.UsersService, app.ResumesService)
	app.ResumesHandler = resumes.NewHandler(app.ResumesService, cfg.UploadTmpDir)
	app.AIHandler = ai.NewHandler(app.AIService)
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		app.GoogleAuth = googleauth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			app.UsersService,
		)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:     cfg,
		Users:      app.UsersHandler,
		Resumes:    app.ResumesHandler,
		AI:         app.AIHandler,
		GoogleAuth: app.GoogleAuth,
	})

	return app, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db", map[string]any{"msg": "DATABASE_URL empty; using in-memory repositories"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db", map[string]any{"msg": "database connect failed; using in-memory repositories", "err": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if err := db.RunMigrations(migrateCtx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildImageClient(cfg config.Config) resumes.ImageUploader {
	if strings.TrimSpace(cfg.ImageKitPrivateKey) == "" {
		telemetry.Warn("bootstrap.imagekit", map[string]any{"msg": "IMAGEKIT_PRIVATE_KEY empty; image uploads disabled"})
		return nil
	}
	client, err := imagekit.NewClient(cfg.ImageKitUploadURL, cfg.ImageKitPrivateKey)
	if err != nil {
		telemetry.Warn("bootstrap.imagekit", map[string]any{"msg": "image client init failed; image uploads disabled", "err": err.Error()})
		return nil
	}
	return client
}

func buildLLM(cfg config.Config) llm.Client {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if cfg.LLMProvider != "openai" || apiKey == "" || cfg.LLMModel == "" {
		telemetry.Warn("bootstrap.llm", map[string]any{"msg": "LLM not configured; AI endpoints disabled"})
		return llm.PlaceholderClient{}
	}
	client, err := openai.NewClient(apiKey, cfg.LLMModel)
	if err != nil {
		telemetry.Warn("bootstrap.llm", map[string]any{"msg": "LLM init failed; AI endpoints disabled", "err": err.Error()})
		return llm.PlaceholderClient{}
	}
	return client
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
