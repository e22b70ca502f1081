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
	"github.com/Domenick1991/airtickets/internal/clients"
	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/Domenick1991/airtickets/internal/kafka"
	"github.com/Domenick1991/airtickets/internal/logger"
	"github.com/Domenick1991/airtickets/internal/middleware"
	"github.com/Domenick1991/airtickets/internal/repository"
	"github.com/Domenick1991/airtickets/internal/service/tickets"
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
	log := logger.New(cfg.Log, "tickets")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := repository.InitializeSchema(ctx, pool, repository.TicketsSchema); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		log.Fatalf("init tokens: %v", err)
	}
	serviceToken := func(context.Context) (string, error) {
		token, _, err := tokens.Issue(cfg.Auth.ServiceName, domain.RoleService)
		return token, err
	}

	flightsClient := clients.NewFlightsClient(cfg.Services.FlightsURL, cfg.Services.Timeout(), cfg.Services.Retries, serviceToken)
	identityClient := clients.NewIdentityClient(cfg.Services.IdentityURL, cfg.Services.Timeout(), cfg.Services.Retries)

	server := bootstrap.NewServer(cfg, log)
	server.AddHealthCheck("postgres", pool.Ping)

	opts := []tickets.TicketServiceOption{
		tickets.WithSeatReservation(cfg.Booking.ReserveSeats),
		tickets.WithEnrichParallel(cfg.Booking.EnrichParallel),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()
		server.AddHealthCheck("kafka", producer.CheckConnection)
		opts = append(opts, tickets.WithEvents(producer, cfg.Kafka.TicketsTopic))
	}
	if !cfg.Booking.ReserveSeats {
		log.Warn("seat reservation disabled: bookings will not decrement available seats")
	}

	ticketService := tickets.NewTicketService(
		repository.NewTicketRepository(pool),
		flightsClient,
		flightsClient,
		identityClient,
		log,
		opts...,
	)

	resolver := auth.NewIdentityResolver(tokens, identityClient)
	group := server.Router().Group("/tickets", middleware.Authenticate(resolver, log))
	api.NewTicketHandler(ticketService).Register(group)

	if err := server.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
