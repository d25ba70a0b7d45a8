package bootstrap

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/cinema/api"
	"github.com/Domenick1991/cinema/config"
	"github.com/Domenick1991/cinema/internal/service/admin"
	"github.com/Domenick1991/cinema/internal/service/booking"
	"github.com/Domenick1991/cinema/internal/service/cart"
	"github.com/Domenick1991/cinema/internal/service/catalog"
	"github.com/Domenick1991/cinema/internal/service/history"
	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	healthProbeInterval = 10 * time.Second
	sweepInterval       = time.Minute
)

// Services are the use cases the HTTP pages are built on.
type Services struct {
	Catalog catalog.CatalogUseCase
	Booking booking.BookingUseCase
	Cart    cart.CartUseCase
	History history.HistoryUseCase
	Admin   admin.AdminUseCase
}

// Pinger reports whether the data backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sweeper drops per-customer state that has been idle too long.
type Sweeper interface {
	SweepExpired() int
}

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	health     *health.Server
	healthConn *grpc.ClientConn
}

// Run starts the gRPC health server and the HTTP server (gin pages, /healthz
// through grpc-gateway, swagger) and blocks until context is canceled or a
// server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, backend Pinger, logger *logrus.Logger) error {
	s, err := newServers(cfg, svc, logger)
	if err != nil {
		return err
	}
	defer s.healthConn.Close()

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()
	go func() { errCh <- s.httpServer.ListenAndServe() }()

	go watchBackend(ctx, s.health, backend, healthProbeInterval, logger)
	go sweepLoop(ctx, sweepInterval, logger, svc.Booking, svc.Cart)

	logger.WithFields(logrus.Fields{
		"http": cfg.HTTP.Address,
		"grpc": cfg.GRPC.Address,
	}).Info("servers started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, svc Services, logger *logrus.Logger) (*Servers, error) {
	grpcSrv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, hs)
	reflection.Register(grpcSrv)

	conn, err := grpc.NewClient(cfg.GRPC.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial health service: %w", err)
	}
	gwmux := runtime.NewServeMux(runtime.WithHealthEndpointAt(healthpb.NewHealthClient(conn), "/healthz"))

	router := newRouter(svc, logger)
	router.GET("/healthz", gin.WrapH(gwmux))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/cinema.swagger.json"))))
	}

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: httpSrv,
		health:     hs,
		healthConn: conn,
	}, nil
}

func newRouter(svc Services, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	group := router.Group("/api")
	api.NewCatalogHandler(svc.Catalog).Register(group)
	api.NewBookingHandler(svc.Booking).Register(group.Group("/booking"))
	api.NewCartHandler(svc.Cart).Register(group.Group("/carts"))
	api.NewHistoryHandler(svc.History).Register(group.Group("/history"))
	api.NewAdminHandler(svc.Admin, svc.History).Register(group.Group("/admin"))
	return router
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	}
}

func watchBackend(ctx context.Context, hs *health.Server, backend Pinger, every time.Duration, logger *logrus.Logger) {
	probe(ctx, hs, backend, logger)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe(ctx, hs, backend, logger)
		}
	}
}

func probe(ctx context.Context, hs *health.Server, backend Pinger, logger *logrus.Logger) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := backend.Ping(pingCtx); err != nil {
		logger.WithError(err).Warn("data backend unreachable")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus("", status)
}

func sweepLoop(ctx context.Context, every time.Duration, logger *logrus.Logger, sweepers ...Sweeper) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sweep(sweepers...); n > 0 {
				logger.WithField("expired", n).Info("dropped idle bookings and carts")
			}
		}
	}
}

func sweep(sweepers ...Sweeper) int {
	total := 0
	for _, s := range sweepers {
		total += s.SweepExpired()
	}
	return total
}
