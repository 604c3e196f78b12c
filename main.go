package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dododo1295/quicknotes/config"
	"github.com/dododo1295/quicknotes/handler"
	"github.com/dododo1295/quicknotes/middleware"
	"github.com/dododo1295/quicknotes/repository"
	"github.com/dododo1295/quicknotes/services"
	"github.com/dododo1295/quicknotes/usecase"
	"github.com/dododo1295/quicknotes/utils"
)

type stores struct {
	notes     repository.NoteStore
	users     repository.UserStore
	blacklist services.TokenBlacklist
	close     func()
}

// openStores connects the backend named by STORE_DRIVER and the token blacklist.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	s := &stores{close: func() {}}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := repository.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.DatabaseName)
		if err := repository.SetupIndexes(db, cfg.NotesCollection, cfg.UsersCollection); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		s.notes = repository.GetNotesRepo(db, cfg.NotesCollection)
		s.users = repository.GetUserRepo(db, cfg.UsersCollection)
		s.close = func() { _ = client.Disconnect(context.Background()) }

	case config.DriverPostgres:
		pool, err := repository.NewPGX(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		s.notes = repository.NewNotesPGRepo(pool)
		s.users = repository.NewUserPGRepo(pool)
		s.close = pool.Close

	case config.DriverMemory:
		s.notes = repository.NewMemoryNotesRepo()
		s.users = repository.NewMemoryUserRepo()

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.Redis.URL == "" {
		slog.Warn("REDIS_URL not set, revoked tokens are kept in memory")
		s.blacklist = services.NewMemoryTokenBlacklist()
		return s, nil
	}

	blacklist, err := services.NewTokenBlacklist(ctx, cfg.Redis.URL)
	if err != nil {
		s.close()
		return nil, err
	}
	s.blacklist = blacklist
	closeStore := s.close
	s.close = func() {
		_ = blacklist.Client.Close()
		closeStore()
	}
	return s, nil
}

func setupRouter(cfg config.Config, st *stores) *gin.Engine {
	if cfg.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestTracingMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.EnhancedRecoveryMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.SecurityHeaders(),
		middleware.RequestSizeLimiter(cfg.HTTP.MaxBodyBytes),
	)

	notesService := usecase.NewNotesService(st.notes)
	userService := usecase.NewUserService(st.users, services.NewTokenIssuer(cfg.JWT), st.blacklist)
	statsHandler := handler.NewStatsHandler(userService, notesService)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"notes":     st.notes,
		"users":     st.users,
		"blacklist": st.blacklist,
	})

	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	public := router.Group("/api")
	public.Use(middleware.CacheControlMiddleware("no-store"))
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, userService)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, userService)
			})
			auth.POST("/refresh", func(c *gin.Context) {
				handler.RefreshTokenHandler(c, userService)
			})
		}
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.CacheControlMiddleware("no-store"), middleware.AuthMiddleware(userService))
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetUserProfileHandler(c, userService)
			})
			user.GET("/stats", statsHandler.GetUserStats)
			user.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, userService)
			})
		}

		notes := protected.Group("/notes")
		{
			notes.GET("", func(c *gin.Context) {
				handler.GetUserNotesHandler(c, notesService)
			})
			notes.GET("/search", func(c *gin.Context) {
				handler.SearchNotesHandler(c, notesService)
			})
			notes.GET("/by-date", func(c *gin.Context) {
				handler.GetNotesByDateHandler(c, notesService)
			})
			notes.GET("/by-title", func(c *gin.Context) {
				handler.GetNotesByTitleHandler(c, notesService)
			})
			notes.GET("/:id", func(c *gin.Context) {
				handler.GetNoteHandler(c, notesService)
			})

			notes.POST("", func(c *gin.Context) {
				handler.CreateNoteHandler(c, notesService)
			})
			update := func(c *gin.Context) {
				handler.UpdateNoteHandler(c, notesService)
			}
			notes.PATCH("/:id", update)
			notes.PUT("/:id", update)
			notes.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteNoteHandler(c, notesService)
			})
		}
	}

	return router
}

func main() {
	if err := run(); err != nil {
		slog.Error("quicknotes stopped", utils.Err(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := utils.InitLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	router := setupRouter(cfg, st)
	return serve(ctx, cfg, middleware.CORS(cfg.CORSAllowedOrigins).Handler(router))
}
