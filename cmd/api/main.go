package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hamdansalifupolibu/hondandaawa/internal/audit"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/auth"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/cache"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/config"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/database"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/logger"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/server"
	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
	"github.com/hamdansalifupolibu/hondandaawa/internal/repo"
	"github.com/hamdansalifupolibu/hondandaawa/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.NewWithErrorFile(
		cfg.Log.Level, cfg.Log.JSON,
		cfg.Log.ErrorLog.Filename,
		cfg.Log.ErrorLog.MaxSizeMB,
		cfg.Log.ErrorLog.MaxBackups,
		cfg.Log.ErrorLog.MaxAgeDays,
		cfg.Log.ErrorLog.Compress,
	)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(domain.All()...); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.TokenTTLHour) * time.Hour,
	}

	respCache := buildCache(cfg, log)
	recorder := audit.NewRecorder(repo.NewAuditRepo(db), log)

	r := router.NewAPIEngine(router.Deps{
		Log:       log,
		DB:        db,
		JWT:       jwter,
		Cache:     respCache,
		Audit:     recorder,
		UploadDir: cfg.Upload.Dir,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.New(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

func buildCache(cfg *config.Config, l *zap.Logger) *cache.Cache {
	if cfg.Cache.Backend == "redis" {
		l.Info("response cache: redis", zap.String("addr", cfg.Redis.Addr))
		return cache.New(cache.NewRedisStore(
			cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
		))
	}
	l.Info("response cache: memory")
	return cache.New(cache.NewMemoryStore())
}
