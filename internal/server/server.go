package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gymdesk/internal/access"
	"gymdesk/internal/client"
	"gymdesk/internal/config"
	"gymdesk/internal/importer"
	"gymdesk/internal/logger"
	"gymdesk/internal/payment"
	"gymdesk/internal/report"
	"gymdesk/internal/settings"
)

var ErrNotLoopback = errors.New("HTTP address must be a loopback address")

// Handlers groups the per-domain handlers mounted by the server.
type Handlers struct {
	Clients  *client.Handler
	Import   *importer.Handler
	Payments *payment.Handler
	Accesses *access.Handler
	Reports  *report.Handler
	Settings *settings.Handler
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, h Handlers) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	clients := router.Group("/clients")
	h.Clients.RegisterRoutes(clients)
	h.Import.RegisterRoutes(clients)

	h.Payments.RegisterRoutes(router.Group("/payments"))

	accesses := router.Group("/accesses")
	accesses.POST("", RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst), h.Accesses.Register)
	h.Accesses.RegisterRoutes(accesses)

	h.Reports.RegisterRoutes(router.Group("/reports"))
	h.Settings.RegisterRoutes(router.Group("/settings"))

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown. Only loopback addresses are accepted: the
// front desk UI runs on the same machine.
func (s *Server) Start() error {
	if err := CheckLoopback(s.http.Addr); err != nil {
		return err
	}
	logger.Info("HTTP server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// CheckLoopback rejects addresses that would listen beyond this machine.
func CheckLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid HTTP address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("%w: %q", ErrNotLoopback, addr)
	}
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Origin, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
