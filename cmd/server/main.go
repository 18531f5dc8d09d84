package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-gin-rsvp/config"
	"go-gin-rsvp/internal/auth"
	"go-gin-rsvp/internal/cache"
	"go-gin-rsvp/internal/database"
	"go-gin-rsvp/internal/handler"
	"go-gin-rsvp/internal/queue"
	"go-gin-rsvp/internal/realtime"
	"go-gin-rsvp/internal/repository"
	"go-gin-rsvp/internal/service"
	"go-gin-rsvp/internal/storage"
	"go-gin-rsvp/internal/worker"
	"go-gin-rsvp/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	defer logger.Sync()
	log := logger.WithComponent("main")

	cfg := config.LoadConfig()
	gin.SetMode(getGinMode())

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatal("Failed to apply schema", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	// 每個實例各自一個 consumer group，所有實例都會收到每筆異動
	instanceID := uuid.New().String()
	changeQueue, err := queue.NewRedisStreamChangeQueue(rdb, instanceID, nil)
	if err != nil {
		log.Fatal("Failed to initialize change queue", zap.Error(err))
	}

	hub := realtime.NewHub(realtime.DefaultSubscriberBuffer)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if err := worker.NewChangeWorker(changeQueue, hub).Start(workerCtx); err != nil {
		log.Fatal("Failed to start change worker", zap.Error(err))
	}

	uploader, err := storage.NewS3Uploader(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	eventRepo := repository.NewEventRepository(pool)
	rsvpRepo := repository.NewRSVPRepository(pool)
	eventCache := cache.NewRedisEventCache(rdb, cfg.Server.EventCacheTTL)

	eventService := service.NewEventService(eventRepo, eventCache)
	rsvpService := service.NewRSVPService(rsvpRepo, eventService, changeQueue)

	router := handler.NewRouter(handler.RouterDeps{
		EventService:     eventService,
		RSVPService:      rsvpService,
		HostService:      service.NewHostService(eventRepo),
		DashboardService: service.NewDashboardService(rsvpService, hub, cfg.Server.BaseURL),
		UploadService:    service.NewUploadService(uploader),
		Sessions:         auth.NewSessionManager(&cfg.Session),
		ReadyChecks: map[string]handler.HealthCheck{
			"database": pool.Ping,
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		},
	})

	// SSE 連線不會自行結束，關機時取消 base context 讓 dashboard 串流收尾
	baseCtx, cancelBase := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("instance", instanceID))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	stopWorker()
	if err := changeQueue.Close(ctx); err != nil {
		log.Warn("Failed to remove consumer group", zap.Error(err))
	}
	log.Info("Server exited")
}

func getGinMode() string {
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		return mode
	}
	return gin.ReleaseMode
}
