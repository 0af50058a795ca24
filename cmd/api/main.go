package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"partsbay/internal/adapter/api"
	"partsbay/internal/adapter/api/handler"
	apimiddleware "partsbay/internal/adapter/api/middleware"
	"partsbay/internal/adapter/api/router"
	"partsbay/internal/adapter/repository"
	"partsbay/internal/infrastructure/cloudinary"
	"partsbay/internal/infrastructure/embedding"
	"partsbay/internal/infrastructure/postgres"
	"partsbay/internal/infrastructure/queue"
	"partsbay/internal/infrastructure/ratelimit"
	"partsbay/internal/infrastructure/telegram"
	"partsbay/internal/infrastructure/upload"
	"partsbay/internal/infrastructure/websocket"
	"partsbay/internal/usecase"
	"partsbay/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewPostgresUserRepository(pool)
	productRepo := repository.NewPostgresProductRepository(pool)
	offerRepo := repository.NewPostgresOfferRepository(pool)
	orderRepo := repository.NewPostgresOrderRepository(pool)
	shipmentRepo := repository.NewPostgresShipmentRepository(pool)
	eventLogRepo := repository.NewPostgresEventLogRepository(pool)
	mediaRepo := repository.NewPostgresMediaRepository(pool)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)
	publisher := websocket.NewPublisher(wsManager)

	notifier, err := telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramAdminChatID)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram notifier: %v", err)
	}

	cloudinaryClient, err := cloudinary.NewClient(
		cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatalf("Failed to initialize Cloudinary: %v", err)
	}

	var embedder usecase.Embedder
	if cfg.OpenAIAPIKey != "" {
		embedder = embedding.NewClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	}

	actionQueue, err := queue.Open(cfg.QueuePath, cfg.QueueSyncDelay)
	if err != nil {
		log.Fatalf("Failed to open action queue: %v", err)
	}
	defer actionQueue.Close()

	actionQueue.RegisterHandler("telegram_send", func(ctx context.Context, action queue.Action) error {
		var payload usecase.TelegramSendPayload
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return err
		}
		return notifier.Send(ctx, payload.ChatID, payload.Text)
	})
	actionQueue.Start(ctx)

	uploadStore, err := upload.Open(cfg.UploadStorePath)
	if err != nil {
		log.Fatalf("Failed to open upload store: %v", err)
	}
	defer uploadStore.Close()

	jwtExpiry := time.Duration(cfg.JWTExpiry) * time.Second

	authUseCase := usecase.NewAuthUseCase(userRepo, notifier, cfg.JWTSecret, jwtExpiry)
	productUseCase := usecase.NewProductUseCase(productRepo, eventLogRepo, publisher)
	offerUseCase := usecase.NewOfferUseCase(offerRepo, productRepo, userRepo, eventLogRepo, publisher, notifier)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, offerRepo, productRepo, userRepo, eventLogRepo, publisher, actionQueue)
	shipmentUseCase := usecase.NewShipmentUseCase(shipmentRepo, orderRepo, eventLogRepo, publisher)
	mediaUseCase := usecase.NewMediaUseCase(mediaRepo, orderRepo, cloudinaryClient, publisher)
	stickerUseCase := usecase.NewStickerUseCase(orderRepo, shipmentRepo, userRepo, cloudinaryClient)
	embeddingUseCase := usecase.NewEmbeddingUseCase(productRepo, embedder)
	analyticsUseCase := usecase.NewAnalyticsUseCase(orderRepo, offerRepo, productRepo, eventLogRepo)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authUseCase)
	adminMiddleware := apimiddleware.NewAdminMiddleware()
	serviceTokenMiddleware := apimiddleware.NewServiceTokenMiddleware(cfg.BotServiceToken)

	authLimiter := ratelimit.NewRateLimiter(5, 5, time.Minute)
	offerLimiter := ratelimit.NewRateLimiter(10, 10, time.Minute)

	router.Setup(e, router.Handlers{
		Auth:      handler.NewAuthHandler(authUseCase),
		Product:   handler.NewProductHandler(productUseCase, offerUseCase),
		Offer:     handler.NewOfferHandler(offerUseCase),
		Order:     handler.NewOrderHandler(orderUseCase),
		Shipment:  handler.NewShipmentHandler(shipmentUseCase),
		Media:     handler.NewMediaHandler(mediaUseCase),
		Upload:    handler.NewUploadHandler(uploadStore),
		Admin:     handler.NewAdminHandler(stickerUseCase, embeddingUseCase, analyticsUseCase),
		WebSocket: handler.NewWebSocketHandler(wsManager),
		Health:    handler.NewHealthHandler(),
	}, router.Middlewares{
		Auth:         authMiddleware,
		Admin:        adminMiddleware,
		ServiceToken: serviceTokenMiddleware,
		AuthLimit:    apimiddleware.RateLimit(authLimiter),
		OfferLimit:   apimiddleware.RateLimit(offerLimiter),
	})

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
