package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pod-service/internal/core/auth"
	"pod-service/internal/core/cache"
	"pod-service/internal/core/config"
	"pod-service/internal/core/database"
	"pod-service/internal/core/logger"
	"pod-service/internal/core/server"
	"pod-service/internal/feature/user"
	"pod-service/internal/transport/http/router"
)

// 管理端单独一个进程 / 端口，只做用户管理
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&user.UserModel{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	var rdb *cache.Cache
	if cfg.Redis.Addr != "" {
		rdb = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	r := router.NewAdminEngine(router.Deps{
		Log:   log,
		DB:    db,
		JWT:   jwter,
		Cache: rdb,
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 10*time.Second, 30*time.Second, 60*time.Second)

	log.Info("admin api starting", zap.String("addr", addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
}
