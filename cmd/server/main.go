package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/flpflJ/crypto-chat/config"
	"github.com/flpflJ/crypto-chat/internal/chat"
	chatmodel "github.com/flpflJ/crypto-chat/internal/chat/model"
	"github.com/flpflJ/crypto-chat/internal/chat/registry"
	chatrepo "github.com/flpflJ/crypto-chat/internal/chat/repository"
	chatusecase "github.com/flpflJ/crypto-chat/internal/chat/usecase"
	"github.com/flpflJ/crypto-chat/internal/metrics"
	"github.com/flpflJ/crypto-chat/internal/transport/httpserver"
	"github.com/flpflJ/crypto-chat/internal/user"
	usermodel "github.com/flpflJ/crypto-chat/internal/user/model"
	userrepo "github.com/flpflJ/crypto-chat/internal/user/repository"
	userusecase "github.com/flpflJ/crypto-chat/internal/user/usecase"
	"github.com/flpflJ/crypto-chat/pkg/logger"
)

const shutdownGracePeriod = 10 * time.Second

func main() {
	_ = godotenv.Load()

	configName := os.Getenv("CONFIG_NAME")
	if configName == "" {
		configName = "config-local"
	}

	v, err := config.LoadConfig(configName)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		log.Fatalf("parse config: %v", err)
	}

	// .env overrides for deployment secrets
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Bun.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	appLogger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	reg := registry.New(m)

	var (
		userRepository user.UserRepository
		messageStore   chat.MessageRepository
	)

	if cfg.Bun.DSN != "" {
		db, err := connectDB(cfg.Bun.DSN)
		if err != nil {
			appLogger.Error("failed to connect to database", "err", err)
			os.Exit(1)
		}
		defer db.Close()

		userRepository = userrepo.NewUserRepository(db, *appLogger)
		messageStore = chatrepo.NewMessageRepository(db, *appLogger)
		appLogger.Info("using postgres storage")
	} else {
		userRepository = userrepo.NewMemoryUserRepository()
		messageStore = chatrepo.NewMemoryStore()
		appLogger.Warn("no DSN configured, storage is in-memory and lost on restart")
	}

	userUC := userusecase.NewUserUsecase(userRepository, *appLogger, *cfg)
	chatUC := chatusecase.NewChatUsecase(messageStore, reg, *appLogger, m)

	handlers := httpserver.NewHandlers(userUC, chatUC, reg, *cfg, *appLogger)
	router := httpserver.NewRouter(handlers, prometheus.DefaultGatherer)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("server listening", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("graceful shutdown failed", "err", err)
	}
}

func connectDB(dsn string) (*bun.DB, error) {
	connector := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
	sqlDB := sql.OpenDB(connector)
	db := bun.NewDB(sqlDB, pgdialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// bootstrap schema; real migrations are overkill at this size
	for _, model := range []any{(*usermodel.User)(nil), (*chatmodel.Message)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return nil, err
		}
	}
	return db, nil
}
