package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/volley-vote-api/api/swagger"
	"github.com/noah-isme/volley-vote-api/internal/handler"
	internalmiddleware "github.com/noah-isme/volley-vote-api/internal/middleware"
	"github.com/noah-isme/volley-vote-api/internal/repository"
	"github.com/noah-isme/volley-vote-api/internal/service"
	"github.com/noah-isme/volley-vote-api/internal/week"
	"github.com/noah-isme/volley-vote-api/pkg/cache"
	"github.com/noah-isme/volley-vote-api/pkg/config"
	"github.com/noah-isme/volley-vote-api/pkg/database"
	"github.com/noah-isme/volley-vote-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/volley-vote-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/volley-vote-api/pkg/middleware/requestid"
	"github.com/noah-isme/volley-vote-api/pkg/push"
	"github.com/noah-isme/volley-vote-api/pkg/validation"
)

// @title Volley Vote API
// @version 1.0.0
// @description Weekly volleyball attendance voting with push reminders
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey AdminPassword
// @in header
// @name X-Admin-Password

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, roster cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validate := validation.New()
	clock := week.SystemClock

	personRepo := repository.NewPersonRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Redis.RosterTTL, logr, cacheRepo.Enabled())
	personSvc := service.NewPersonService(personRepo, cacheSvc, clock, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, personRepo, clock, validate, metrics, logr, service.AttendanceConfig{
		EventDuration: cfg.Calendar.EventDuration,
		EventSummary:  cfg.Calendar.Summary,
	}).WithPDFFont(cfg.Export.PDFFontPath).WithLabelledRoster(personSvc)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, cfg.Push.VAPIDPublicKey, validate, logr)

	var sender push.Sender
	if cfg.Push.Configured() {
		webPush, err := push.NewWebPushSender(push.Options{
			PublicKey:  cfg.Push.VAPIDPublicKey,
			PrivateKey: cfg.Push.VAPIDPrivateKey,
			Subscriber: cfg.Push.Subscriber,
			TTL:        cfg.Push.TTL,
			HTTPClient: &http.Client{Timeout: cfg.Push.Timeout},
		})
		if err != nil {
			return fmt.Errorf("init push sender: %w", err)
		}
		sender = webPush
	} else {
		logr.Warn("VAPID keys not configured, push notifications disabled")
	}
	reminderSvc, err := service.NewReminderService(subscriptionRepo, sender, validate, metrics, logr, service.ReminderConfig{
		Title:       cfg.Push.ReminderTitle,
		Body:        cfg.Push.ReminderBody,
		Concurrency: cfg.Push.Concurrency,
		Timeout:     cfg.Push.Timeout,
	})
	if err != nil {
		return fmt.Errorf("init reminders: %w", err)
	}

	adminSvc, err := service.NewAdminAuthService(service.AdminAuthConfig{
		Password:    cfg.Admin.Password,
		TokenSecret: cfg.Admin.TokenSecret,
		TokenTTL:    cfg.Admin.TokenTTL,
	}, validate, logr)
	if err != nil {
		return fmt.Errorf("init admin auth: %w", err)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := internalmiddleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.Run(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(metrics, "/health", "/ready", "/metrics"))
	}

	checks := map[string]handler.Pinger{"database": db}
	if cacheRepo.Enabled() {
		checks["cache"] = handler.PingerFunc(cacheRepo.Ping)
	}

	handler.Router{
		Prefix:        cfg.APIPrefix,
		Persons:       handler.NewPersonHandler(personSvc),
		Attendance:    handler.NewAttendanceHandler(attendanceSvc),
		Push:          handler.NewPushHandler(subscriptionSvc),
		Admin:         handler.NewAdminHandler(adminSvc, reminderSvc),
		Metrics:       handler.NewMetricsHandler(metrics, checks),
		AdminGuard:    internalmiddleware.Admin(adminSvc),
		WriteLimiter:  internalmiddleware.RateLimit(limiter),
		ExposeMetrics: cfg.Metrics.Enabled,
	}.Register(r)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env), zap.String("db_driver", cfg.Database.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
