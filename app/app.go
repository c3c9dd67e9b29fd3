package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chanotai/library-lending/config"
	"github.com/chanotai/library-lending/internal/handler"
	"github.com/chanotai/library-lending/internal/repository"
	"github.com/chanotai/library-lending/internal/server"
	"github.com/chanotai/library-lending/internal/service"
	"github.com/chanotai/library-lending/migrations"
	"github.com/chanotai/library-lending/pkg/logger"
	"github.com/chanotai/library-lending/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		if db == nil {
			log.Fatal("db init", zap.Error(err))
		}
		// start degraded; the health endpoint reports the outage
		log.Error("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	svc := service.NewService(repo, service.Config{
		LoanPeriod:     cfg.Lending.LoanPeriod,
		ReturnSelfOnly: cfg.Lending.ReturnSelfOnly,
	}, log)

	h := handler.New(svc, cfg.JWT, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
