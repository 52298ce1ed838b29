package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizdirectory/cmd/internal/config"
	"bizdirectory/cmd/internal/domain/sqlite"
	"bizdirectory/cmd/internal/domain/sqlite/repository"
	"bizdirectory/cmd/internal/http/handler"
	authmw "bizdirectory/cmd/internal/http/middleware"
	cognitoclient "bizdirectory/cmd/internal/infrastructure/aws/cognito"
	"bizdirectory/cmd/internal/infrastructure/aws/storage"
	"bizdirectory/cmd/internal/infrastructure/aws/websocket"
	"bizdirectory/cmd/internal/routes"
	"bizdirectory/cmd/internal/service"
	"bizdirectory/cmd/internal/service/jobs"
	"bizdirectory/cmd/internal/utils"
	"bizdirectory/cmd/internal/utils/validators"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if !cfg.Production {
		log.SetLevel(log.DEBUG)
	}

	validate := validators.New()

	// Init SQLite
	db, err := sqlite.Init(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	awsCfg, err := cfg.AWS(ctx)
	if err != nil {
		log.Fatalf("unable to load SDK config: %v", err)
	}

	// Gettings repos
	aggregator := repository.NewScoreAggregator()
	companyRepo := repository.NewCompanyRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	rateRepo := repository.NewRateRepository(db, aggregator)
	userRepo := repository.NewUserRepository(db, aggregator)
	providerRepo := repository.NewProviderRepository(db)
	connRepo := repository.NewConnectionRepository(db)

	// Optional collaborators stay untyped nil when not configured
	var cogClient cognitoclient.CognitoInterface
	var verifier *utils.TokenVerifier
	if cfg.CognitoEnabled() {
		cogClient = cognitoclient.NewCognitoClient(awsCfg, cfg.CognitoClientID, cfg.CognitoUserPoolID)
		verifier, err = utils.NewCognitoVerifier(cfg.AWSRegion, cfg.CognitoUserPoolID)
		if err != nil {
			log.Fatalf("failed to init token verifier: %v", err)
		}
	} else {
		log.Warn("cognito is not configured, user registration and login are disabled")
	}

	if cfg.AuthRequired && verifier == nil {
		log.Fatal("AUTH_REQUIRED is set but cognito is not configured")
	}

	var s3Client storage.S3Client
	if cfg.S3Bucket != "" {
		s3Client, err = storage.NewStorageClient(awsCfg, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			log.Fatalf("failed to init S3 client: %v", err)
		}
	}

	var wsService *service.WebSocketService
	var broadcaster service.EventBroadcaster
	var sessions service.SessionTerminator
	if cfg.WebSocketEndpoint != "" {
		wsService = service.NewWebSocketService(connRepo, websocket.NewAWSGatewayClient(awsCfg, cfg.WebSocketEndpoint))
		broadcaster = wsService
		sessions = wsService
	}

	// Getting services
	companyService := service.NewCompanyService(companyRepo, addressRepo, rateRepo, providerRepo, s3Client, broadcaster, validate)
	addressService := service.NewAddressService(addressRepo, companyRepo, validate)
	rateService := service.NewRateService(rateRepo, companyRepo, userRepo, broadcaster, validate)
	searchService := service.NewSearchService(companyRepo, addressRepo, rateRepo, s3Client, validate)
	userService := service.NewUserService(userRepo, rateRepo, cogClient, sessions, broadcaster, validate)

	// Gettings handlers
	handlers := &routes.Handlers{
		Companies: handler.NewCompanyDefault(companyService),
		Addresses: handler.NewAddressDefault(addressService),
		Rates:     handler.NewRateDefault(rateService),
		Search:    handler.NewSearchDefault(searchService),
		Users:     handler.NewUserDefault(userService),
	}
	if wsService != nil {
		handlers.WebSocket = handler.NewWSDefault(wsService)
		go jobs.NewConnectionCleaner(wsService).Start(ctx)
	}
	go jobs.NewScoreReconcilerJob(rateService).Start(ctx)

	guard := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{
		Verifier: verifier,
		UserRepo: userRepo,
		Optional: !cfg.AuthRequired,
	})
	wsAuth := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{
		Verifier: verifier,
		UserRepo: userRepo,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(authmw.NewMetricsMiddleware())
	e.Use(middleware.CORSWithConfig(corsConfig(cfg.CORSOrigins)))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	routes.Register(e, handlers, guard, wsAuth)

	go func() {
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down cleanly: %v", err)
	}
}

func corsConfig(origins []string) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig
	if len(origins) > 0 {
		cors.AllowOrigins = origins
	}
	cors.ExposeHeaders = []string{echo.HeaderLocation}
	return cors
}
