package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/micropay-labs/api-gateway/internal/conf"
	"github.com/micropay-labs/api-gateway/internal/gateway/biz"
	"github.com/micropay-labs/api-gateway/internal/gateway/service"
	"github.com/micropay-labs/api-gateway/internal/gateway/upstream"
	"github.com/micropay-labs/api-gateway/internal/payment"
	paymentmw "github.com/micropay-labs/api-gateway/internal/payment/middleware"
	"github.com/micropay-labs/api-gateway/internal/pkg/logger"
	"github.com/micropay-labs/api-gateway/internal/server"
	"go.uber.org/zap"
)

const (
	serviceName    = "api-gateway"
	serviceVersion = "1.1.0"
)

var configFile = flag.String("config", "config.yaml", "config file path")

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("config loaded", zap.String("file", *configFile))

	client := upstream.NewClient(upstream.Config{
		SearchHost:   config.Search.APIHost,
		SearchAPIKey: config.Search.APIKey,
		GitHubHost:   config.GitHub.APIHost,
		UserAgent:    config.Fetch.UserAgent,
		CommitLimit:  config.GitHub.CommitLimit,
		Timeout:      time.Duration(config.GitHub.TimeoutSeconds) * time.Second,
	})

	gatewayUseCase := biz.NewGatewayUseCase(client, log.Named("gateway"))

	var gate gin.HandlerFunc
	if config.Payment.Enabled {
		paymentConfig := paymentConfigFrom(config)

		credential, err := payment.ResolveCredential(paymentConfig)
		if err != nil {
			log.Fatal("failed to resolve facilitator credential", zap.Error(err))
		}

		requirements, err := payment.NewRequirements(paymentConfig)
		if err != nil {
			log.Fatal("failed to build payment requirements", zap.Error(err))
		}

		facilitator := payment.NewFacilitator(paymentConfig.FacilitatorURL, credential)
		gate = paymentmw.Gate(requirements, facilitator, log.Named("payment"))

		log.Info("payment gate enabled",
			zap.String("facilitator", paymentConfig.FacilitatorURL),
			zap.String("network", paymentConfig.Network))
	}

	gatewayService := service.NewGatewayService(gatewayUseCase, buildMeta(config), log.Named("service"))

	httpServer := server.NewHTTPServer(config, log, gatewayService, gate)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func paymentConfigFrom(config *conf.Config) payment.Config {
	routes := make([]payment.RouteConfig, 0, len(config.Payment.Routes))
	for _, route := range config.Payment.Routes {
		routes = append(routes, payment.RouteConfig{
			Path:        route.Path,
			Price:       route.Price,
			Description: route.Description,
		})
	}
	return payment.Config{
		FacilitatorURL: config.Payment.FacilitatorURL,
		Network:        config.Payment.Network,
		PayTo:          config.Payment.PayTo,
		Asset:          config.Payment.Asset,
		Token:          config.Payment.Credential.Token,
		KeyName:        config.Payment.Credential.KeyName,
		KeySecret:      config.Payment.Credential.KeySecret,
		Routes:         routes,
	}
}

func buildMeta(config *conf.Config) service.Meta {
	mode := "free"
	if config.Payment.Enabled {
		mode = "paid"
	}

	endpoints := make([]service.EndpointMeta, 0, len(config.Payment.Routes))
	for _, route := range config.Payment.Routes {
		endpoint := service.EndpointMeta{
			Path:        route.Path,
			Description: route.Description,
		}
		if config.Payment.Enabled {
			endpoint.Price = route.Price
		}
		endpoints = append(endpoints, endpoint)
	}

	return service.Meta{
		Name:      serviceName,
		Version:   serviceVersion,
		Mode:      mode,
		Endpoints: endpoints,
	}
}
