package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo"
	"gorm.io/gorm"

	"github.com/swipenest/swipenest/internal/config"
	"github.com/swipenest/swipenest/internal/datastore/postgres"
	redisClient "github.com/swipenest/swipenest/internal/datastore/redis"
	listingRepo "github.com/swipenest/swipenest/internal/repository/listing"
	prefsRepo "github.com/swipenest/swipenest/internal/repository/prefs"
	swipeRepo "github.com/swipenest/swipenest/internal/repository/swipe"
	userRepo "github.com/swipenest/swipenest/internal/repository/user"
	routesV1 "github.com/swipenest/swipenest/internal/routes/v1"
	"github.com/swipenest/swipenest/internal/swipequeue"
	authUseCase "github.com/swipenest/swipenest/internal/usecase/auth"
	feedUseCase "github.com/swipenest/swipenest/internal/usecase/feed"
	"github.com/swipenest/swipenest/pkg/jwt"
	"github.com/swipenest/swipenest/pkg/logger"
)

type Server struct {
	writer     io.Writer
	httpServer *http.Server
	database   *gorm.DB
	feedCase   feedUseCase.IFeedUseCase
	log        *logger.Logger
}

// Run wires the whole service and blocks until ctx is cancelled or the
// listener fails. args[1], when present, selects the config env
// (dev/test/prod).
func Run(ctx context.Context, w io.Writer, args []string) error {
	env := "DEV"
	if len(args) > 1 {
		env = args[1]
	}

	cfg, err := config.NewConfig(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Get("LOG_MODE"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	jwt.SetSecret(cfg.Get("JWT_SECRET"))

	server, err := NewServer(ctx, w, cfg, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartServer()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func NewServer(ctx context.Context, w io.Writer, cfg *config.Config, log *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	database, err := postgres.InitializeDB(
		cfg.Get("POSTGRES_USER"),
		cfg.Get("POSTGRES_PASSWORD"),
		cfg.Get("POSTGRES_DB_NAME"),
		cfg.Get("POSTGRES_HOST"),
		cfg.Get("POSTGRES_PORT"),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	rdb, err := redisClient.InitializeClient(cfg.Get("REDIS_HOST"), cfg.Get("REDIS_PORT"))
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}

	users := userRepo.New(database)
	listings := listingRepo.New(database)
	swipes := swipeRepo.New(database, rdb)
	prefs := prefsRepo.New(database)

	authCase := authUseCase.New(users)
	feedCase := feedUseCase.New(ctx, listings, swipes, prefs, log, swipequeue.DefaultConfig())

	server := &Server{
		writer: w,
		httpServer: &http.Server{
			Addr:    ":" + cfg.Get("PORT"),
			Handler: e,
		},
		database: database,
		feedCase: feedCase,
		log:      log,
	}

	server.RegisterRoutes(e, users, authCase, feedCase)
	return server, nil
}

func (s *Server) RegisterRoutes(e *echo.Echo, users userRepo.IUserRepo, authCase authUseCase.IAuthUseCase, feedCase feedUseCase.IFeedUseCase) {
	e.GET("/healthz", s.handleHealthCheck)
	routesV1.InitV1Routes(e, users, authCase, feedCase)
}

func (s *Server) StartServer() error {
	fmt.Fprintf(s.writer, "Server starting on %s\n", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Let queued swipe decisions land before the process exits.
	s.feedCase.FlushQueues()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
