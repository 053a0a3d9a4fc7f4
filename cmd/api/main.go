package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"gamecatalog/config"
	_ "gamecatalog/docs"
	"gamecatalog/internal/adapters/auth"
	delivery "gamecatalog/internal/delivery/http"
	"gamecatalog/internal/delivery/http/controllers"
	"gamecatalog/internal/repository/postgres"
	"gamecatalog/internal/services"
)

// @title Game Catalog API
// @version 1.0
// @description Game catalog with tag search, per-user favorites and tag-based recommendations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return err
	}

	gameRepo := postgres.NewGameRepository(db)
	tagRepo := postgres.NewTagRepository(db)
	userRepo := postgres.NewUserRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)

	jwt := auth.NewJWT(cfg.JWTSecret, cfg.JWTExpiry)

	gameService := services.NewGameService(gameRepo, tagRepo)
	tagService := services.NewTagService(tagRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo, userRepo, gameRepo, tagRepo, logger)
	recommendationService := services.NewRecommendationService(favoriteService, gameService)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.DefaultCost), jwt)

	handler := delivery.NewHandler(delivery.RouterConfig{
		Logger:         logger,
		Verifier:       jwt,
		Auth:           controllers.NewAuthController(logger, authService),
		Games:          controllers.NewGameController(logger, gameService, tagService),
		Favorites:      controllers.NewFavoriteController(logger, favoriteService, recommendationService),
		Admin:          controllers.NewAdminController(logger, gameService, tagService, authService),
		AuthRateLimit:  cfg.AuthRateLimit,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
