package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/micropay-labs/api-gateway/internal/conf"
	"github.com/micropay-labs/api-gateway/internal/gateway/service"
	"github.com/micropay-labs/api-gateway/internal/pkg/logger"
	"go.uber.org/zap"
)

type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

// NewHTTPServer wires the route table. gate may be nil (free variant);
// when present it is applied to the /api group before any handler runs.
func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	gatewayService *service.GatewayService,
	gate gin.HandlerFunc,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(CORS())
	router.Use(RequestLogger(log))

	router.GET("/", gatewayService.Index)

	api := router.Group("/api")
	if gate != nil {
		api.Use(gate)
	}
	gatewayService.RegisterRoutes(api)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	return &HTTPServer{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		logger: log,
	}
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
