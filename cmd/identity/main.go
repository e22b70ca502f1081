package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airtickets/api"
	"github.com/Domenick1991/airtickets/config"
	"github.com/Domenick1991/airtickets/internal/auth"
	"github.com/Domenick1991/airtickets/internal/bootstrap"
	"github.com/Domenick1991/airtickets/internal/logger"
	"github.com/Domenick1991/airtickets/internal/middleware"
	"github.com/Domenick1991/airtickets/internal/repository"
	"github.com/Domenick1991/airtickets/internal/service/identity"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log, "identity")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := repository.InitializeSchema(ctx, pool, repository.IdentitySchema); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		log.Fatalf("init tokens: %v", err)
	}

	userService := identity.NewUserService(repository.NewUserRepository(pool), tokens, log)
	if err := userService.EnsureAdmin(ctx, identity.RegisterInput{
		Username: cfg.Identity.AdminUsername,
		Email:    cfg.Identity.AdminEmail,
		Password: cfg.Identity.AdminPassword,
	}); err != nil {
		log.Fatalf("ensure admin: %v", err)
	}

	server := bootstrap.NewServer(cfg, log)
	server.AddHealthCheck("postgres", pool.Ping)

	handler := api.NewIdentityHandler(userService)
	handler.RegisterPublic(server.Router().Group("/identity"))
	handler.Register(server.Router().Group("/identity", middleware.Authenticate(auth.NewClaimsResolver(tokens), log)))

	if err := server.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
