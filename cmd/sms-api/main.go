package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/Ortiz25/sms-api/api/swagger"
	"github.com/Ortiz25/sms-api/internal/handler"
	"github.com/Ortiz25/sms-api/internal/repository"
	"github.com/Ortiz25/sms-api/internal/service"
	"github.com/Ortiz25/sms-api/pkg/cache"
	"github.com/Ortiz25/sms-api/pkg/config"
	"github.com/Ortiz25/sms-api/pkg/database"
	"github.com/Ortiz25/sms-api/pkg/logger"
	"github.com/Ortiz25/sms-api/pkg/storage"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// @title SMS API
// @version 1.0.0
// @description School management API covering discipline, leave, hostel, transport, academics and payroll.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.DefaultTTL, logr, true)
		defer cacheRepo.Close() //nolint:errcheck
	}

	userRepo := repository.NewUserRepository(db)
	disciplineRepo := repository.NewDisciplineRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	hostelRepo := repository.NewHostelRepository(db)
	transportRepo := repository.NewTransportRepository(db)
	academicRepo := repository.NewAcademicRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      cfg.JWT.SingleSession,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	disciplineSvc := service.NewDisciplineService(disciplineRepo, cacheSvc, metrics, validate, logr)
	leaveSvc := service.NewLeaveService(leaveRepo, validate, logr)
	hostelSvc := service.NewHostelService(hostelRepo, validate, logr)
	transportSvc := service.NewTransportService(transportRepo, validate, logr)
	allocationSvc := service.NewAllocationService(hostelSvc, transportSvc)
	academicSvc := service.NewAcademicService(academicRepo, validate, logr)
	payrollSvc := service.NewPayrollService(payrollRepo, logr)

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc = service.NewReportService(payrollRepo, disciplineRepo, store, signer, service.ReportQueueOptions{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			RetryDelay: time.Second,
		}, logr)
		reportSvc.Start(ctx)
		defer reportSvc.Stop()
	}

	var reportHandler *handler.ReportHandler
	if reportSvc != nil {
		reportHandler = handler.NewReportHandler(reportSvc)
	}

	router := handler.NewRouter(handler.RouterDeps{
		Config:            cfg,
		Logger:            logr,
		Metrics:           metrics,
		Auth:              authSvc,
		UserRepo:          userRepo,
		AuthHandler:       handler.NewAuthHandler(authSvc),
		UserHandler:       handler.NewUserHandler(userSvc),
		DisciplineHandler: handler.NewDisciplineHandler(disciplineSvc),
		LeaveHandler:      handler.NewLeaveHandler(leaveSvc),
		HostelTransport:   handler.NewHostelTransportHandler(hostelSvc, transportSvc, allocationSvc),
		AcademicHandler:   handler.NewAcademicHandler(academicSvc),
		PayrollHandler:    handler.NewPayrollHandler(payrollSvc),
		ReportHandler:     reportHandler,
	})

	if cfg.Discipline.AutoRestoreEnabled {
		go runRestoreSweeper(ctx, disciplineSvc, cfg.Discipline.AutoRestoreInterval, logr)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// runRestoreSweeper periodically restores students whose suspension window
// has elapsed. Runs once at startup so restarts never leave expired
// suspensions hanging until the first tick.
func runRestoreSweeper(ctx context.Context, svc *service.DisciplineService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}

	sweep := func() {
		restored, err := svc.RestoreSweep(ctx, time.Now().UTC())
		if err != nil {
			logr.Sugar().Errorw("restore sweep failed", "error", err)
			return
		}
		if restored > 0 {
			logr.Sugar().Infow("restore sweep completed", "restored", restored)
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
