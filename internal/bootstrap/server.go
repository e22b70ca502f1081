package bootstrap

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Domenick1991/airtickets/config"
	"github.com/Domenick1991/airtickets/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

//go:embed openapi.json
var openAPI []byte

const shutdownTimeout = 5 * time.Second

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type Server struct {
	cfg    *config.Config
	log    logrus.FieldLogger
	router *gin.Engine
	health *health.Server

	mu     sync.Mutex
	checks map[string]HealthCheck
}

// NewServer builds the HTTP router shared by every service: recovery, access
// log, /healthz and, when enabled, the API docs.
func NewServer(cfg *config.Config, log logrus.FieldLogger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	s := &Server{
		cfg:    cfg,
		log:    log,
		router: router,
		health: health.NewServer(),
		checks: map[string]HealthCheck{},
	}

	router.GET("/healthz", s.healthz)
	if cfg.HTTP.DocsEnabled {
		router.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", openAPI)
		})
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/openapi.json"))))
	}
	return s
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

func (s *Server) healthz(c *gin.Context) {
	s.mu.Lock()
	checks := make(map[string]HealthCheck, len(s.checks))
	for name, check := range s.checks {
		checks[name] = check
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, check := range checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves HTTP and, when an address is configured, the gRPC health service.
// It blocks until ctx is cancelled or a server fails, then shuts both down.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.HTTP.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var (
		grpcSrv *grpc.Server
		lis     net.Listener
	)
	if s.cfg.GRPC.Address != "" {
		var err error
		lis, err = net.Listen("tcp", s.cfg.GRPC.Address)
		if err != nil {
			return fmt.Errorf("listen gRPC %s: %w", s.cfg.GRPC.Address, err)
		}
		grpcSrv = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcSrv, s.health)
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.WithField("address", httpSrv.Addr).Info("http server started")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	if grpcSrv != nil {
		g.Go(func() error {
			s.log.WithField("address", lis.Addr().String()).Info("grpc health server started")
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve grpc: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.health.Shutdown()
		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}
