package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stock-ahora/api-mod-semanal/internal/config"
	httpserver "github.com/stock-ahora/api-mod-semanal/internal/http"
	"github.com/stock-ahora/api-mod-semanal/internal/repository"
	"github.com/stock-ahora/api-mod-semanal/internal/service/eventservice"
	"github.com/stock-ahora/api-mod-semanal/internal/service/plan"
	"github.com/stock-ahora/api-mod-semanal/internal/service/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	if cfg.DotEnvErr != nil {
		logger.Debug("No se encontró archivo .env", zap.Error(cfg.DotEnvErr))
	}

	if cfg.SecretID != "" {
		secret, err := config.LoadSecretManager(ctx, cfg.SecretID, cfg.Region)
		if err != nil {
			logger.Fatal("No se pudo leer el secreto", zap.String("secret_id", cfg.SecretID), zap.Error(err))
		}
		cfg.ApplySecret(*secret)
	}

	var repo repository.PlanRepository
	if cfg.DBEnabled() {
		db, err := config.NewPostgresDB(cfg.DB, cfg.IsDev(), logger)
		if err != nil {
			logger.Fatal("DB error", zap.Error(err))
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := config.RunMigrations(cfg.DB, cfg.MigrationsPath, logger); err != nil {
			logger.Fatal("Error aplicando migraciones", zap.Error(err))
		}
		repo = repository.NewPlanRepository(db)
	} else {
		logger.Warn("DB_HOST no definido, se usa el repositorio en memoria")
		repo = repository.NewMemoryPlanRepo()
	}

	opts := []plan.Option{}

	if cfg.MQEnabled() {
		conn, err := config.RabbitConn(cfg.MQ, logger)
		if err != nil {
			logger.Fatal("Error conectando a RabbitMQ", zap.Error(err))
		}
		defer conn.Close()

		pub, err := config.RabbitPublisher(conn, logger)
		if err != nil {
			logger.Fatal("Error creando publisher", zap.Error(err))
		}
		defer pub.Close()

		opts = append(opts, plan.WithPublisher(eventservice.NewMQPublisher(pub, logger)))
		logger.Info("Publicación de eventos habilitada", zap.String("exchange", eventservice.ExchangeName))
	}

	if cfg.S3Enabled() {
		uploadSvc, err := config.S3ConfigService(ctx, cfg.S3)
		if err != nil {
			logger.Fatal("Error configurando S3", zap.Error(err))
		}
		opts = append(opts, plan.WithArchiver(s3.NewS3Svc(*uploadSvc, logger)))
		logger.Info("Archivo de reportes en S3 habilitado", zap.String("bucket", uploadSvc.Bucket))
	}

	svc := plan.NewPlanService(repo, logger, opts...)
	r := httpserver.NewRouter(svc, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API escuchando", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Error del servidor HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Apagando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error al apagar el servidor", zap.Error(err))
	}
}
