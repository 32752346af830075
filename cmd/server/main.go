package main

import (
	"context"
	"database/sql"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/adapters/handler/http"
	"github.com/vunes/poll/internal/adapters/repository/memory"
	"github.com/vunes/poll/internal/adapters/repository/postgres"
	"github.com/vunes/poll/internal/config"
	"github.com/vunes/poll/internal/core/ports"
	"github.com/vunes/poll/internal/core/services"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	var (
		pollRepo  ports.PollRepository
		voteRepo  ports.VoteRepository
		notifRepo ports.NotificationRepository
		userRepo  ports.UserRepository
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to open database", zap.Error(err))
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatal("database ping failed", zap.Error(err))
		}

		pollRepo = postgres.NewPollRepository(db)
		voteRepo = postgres.NewVoteRepository(db)
		notifRepo = postgres.NewNotificationRepository(db)
		userRepo = postgres.NewUserRepository(db)
		log.Info("using postgres store")
	} else {
		pollRepo = memory.NewPollRepository()
		voteRepo = memory.NewVoteRepository()
		notifRepo = memory.NewNotificationRepository()
		userRepo = memory.NewUserRepository()
		log.Info("using in-memory store; state resets on restart")
	}

	locks := services.NewPollLocker()
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)

	handler := http.NewHandler(http.Handlers{
		Auth:          http.NewAuthHandler(authService, log),
		Polls:         http.NewPollHandler(services.NewPollService(pollRepo, voteRepo, locks, log), log),
		Votes:         http.NewVoteHandler(services.NewVoteService(pollRepo, voteRepo, notifRepo, locks, log), log),
		Users:         http.NewUserHandler(services.NewUserService(userRepo, pollRepo, voteRepo, log), log),
		Notifications: http.NewNotificationHandler(services.NewNotificationService(notifRepo), log),
		AuthService:   authService,
	})

	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("shutdown failed", zap.Error(err))
	}
}
