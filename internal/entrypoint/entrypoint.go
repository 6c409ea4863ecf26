package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/avatars"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	auditrepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/catalog"
	"github.com/mrlokans/bookshelf/internal/database/collection"
	"github.com/mrlokans/bookshelf/internal/database/notes"
	"github.com/mrlokans/bookshelf/internal/database/users"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work is stopped after in-flight requests have drained
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// csrfSecret derives the CSRF key from the configured session secret,
// generating a throwaway one when none is set.
func csrfSecret(configured string) ([]byte, error) {
	if configured != "" {
		secret, err := hex.DecodeString(configured)
		if err != nil {
			// Not hex, use as raw bytes
			return []byte(configured), nil
		}
		return secret, nil
	}

	key, err := auth.NewCSRFKey()
	if err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return key, nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	catalogRepo := catalog.NewRepository(db.DB)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	avatarStore, err := avatars.NewStore(cfg.UI.AvatarPath())
	if err != nil {
		log.Fatalf("Failed to initialize avatar store: %v", err)
	}
	log.Printf("Avatar store initialized at %s", avatarStore.Dir())

	// Initialize task queue if enabled. Without it replaced avatars stay on disk.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var avatarRemover services.AvatarRemover
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromConfig(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewRemoveAvatarQueue(avatarStore),
			tasks.NewSweepAvatarsQueue(avatarStore, userRepo),
			tasks.NewPruneAuditEventsQueue(auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		avatarRemover = tasks.NewAvatarRemover(taskClient)

		maintenance, err = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance, cfg.Audit)
		if err != nil {
			log.Fatalf("Failed to configure maintenance scheduler: %v", err)
		}
		if err := maintenance.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
	} else {
		log.Printf("Task queue disabled: replaced avatars will not be removed")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	secret, err := csrfSecret(cfg.Auth.SessionSecret)
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}

	authService := auth.NewService(userRepo, sessionManager, cfg.Auth)
	authController := auth.NewAuthController(authService, cfg.Auth, auditService)

	if count, err := userRepo.CountUsers(); err == nil && count == 0 {
		log.Printf("No users found. Visit /sign-up to create an account.")
	}

	router, err := http_controllers.NewRouter(http_controllers.RouterConfig{
		HealthChecks:   map[string]http_controllers.Pinger{"database": db, "avatars": avatarStore},
		Version:        version,
		SessionManager: sessionManager,
		AuthMiddleware: auth.NewMiddleware(authService),
		AuthController: authController,
		CSRFSecret:     secret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Catalog:        services.NewCatalogService(catalogRepo),
		Collection:     services.NewCollectionService(catalogRepo, collection.NewRepository(db.DB), auditService),
		Notes:          services.NewNotesService(notes.NewRepository(db.DB), auditService),
		Profile:        services.NewProfileService(userRepo, avatarStore, avatarRemover, auditService),
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
	})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		authController.Stop()
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}
