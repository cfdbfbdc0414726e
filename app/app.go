package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shareit/shareit-service/config"
	"github.com/shareit/shareit-service/internal/events"
	"github.com/shareit/shareit-service/internal/handler"
	"github.com/shareit/shareit-service/internal/repository"
	"github.com/shareit/shareit-service/internal/service"
	"github.com/shareit/shareit-service/migrations"
	"github.com/shareit/shareit-service/pkg/kafka"
	"github.com/shareit/shareit-service/pkg/logger"
	"github.com/shareit/shareit-service/pkg/postgres"
	"github.com/shareit/shareit-service/pkg/server"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "shareit")

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, log)
	itemRepo := repository.NewItemRepository(db, log)
	bookingRepo := repository.NewBookingRepository(db, log)
	requestRepo := repository.NewRequestRepository(db, log)
	commentRepo := repository.NewCommentRepository(db, log)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka producer %w", err)
		}
		defer producer.Close() //nolint:errcheck
		publisher = events.NewKafkaPublisher(producer, cfg.Kafka.Topic, log)
	}

	userSvc := service.NewUserService(userRepo, log)
	itemSvc := service.NewItemService(itemRepo, userRepo, bookingRepo, commentRepo, requestRepo, log)
	bookingSvc := service.NewBookingService(bookingRepo, itemRepo, userRepo, publisher, log)
	requestSvc := service.NewRequestService(requestRepo, itemRepo, userRepo, log)

	h := handler.New(userSvc, itemSvc, bookingSvc, requestSvc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	g, gctx := errgroup.WithContext(context.Background())
	g.Go(srv.Run)
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case termSig := <-sig:
			log.Debug("Graceful shutdown", zap.Any("signal", termSig))
		case <-gctx.Done():
		}
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server run", zap.Error(err))
		return err
	}

	log.Info("Graceful shutdown finished")
	return nil
}
