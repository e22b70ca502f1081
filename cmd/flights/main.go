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
	"github.com/Domenick1991/airtickets/internal/cache"
	"github.com/Domenick1991/airtickets/internal/logger"
	"github.com/Domenick1991/airtickets/internal/middleware"
	"github.com/Domenick1991/airtickets/internal/repository"
	"github.com/Domenick1991/airtickets/internal/service/flights"
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
	log := logger.New(cfg.Log, "flights")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := repository.InitializeSchema(ctx, pool, repository.FlightsSchema); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		log.Fatalf("init tokens: %v", err)
	}

	flightRepo := repository.NewFlightRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)

	server := bootstrap.NewServer(cfg, log)
	server.AddHealthCheck("postgres", pool.Ping)

	var opts []flights.FlightOption
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.CacheTTL())
		defer redisCache.Close()
		server.AddHealthCheck("redis", redisCache.Ping)
		opts = append(opts, flights.WithFlightCache(redisCache))
	}

	flightService := flights.NewFlightService(flightRepo, log, opts...)
	scheduleService := flights.NewScheduleService(scheduleRepo, flightRepo)

	group := server.Router().Group("/flights", middleware.Authenticate(auth.NewClaimsResolver(tokens), log))
	api.NewFlightHandler(flightService).Register(group)
	api.NewScheduleHandler(scheduleService).Register(group)

	if err := server.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
