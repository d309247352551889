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

	"golang.org/x/sync/errgroup"

	"github.com/rinday2005/cinema-checkout/config"
	"github.com/rinday2005/cinema-checkout/internal/clients/booking"
	deliveryHttp "github.com/rinday2005/cinema-checkout/internal/delivery/http"
	"github.com/rinday2005/cinema-checkout/internal/delivery/kafka/producer"
	"github.com/rinday2005/cinema-checkout/internal/infra/redis"
	repo "github.com/rinday2005/cinema-checkout/internal/repository/redis"
	"github.com/rinday2005/cinema-checkout/internal/service"
	pkgKafka "github.com/rinday2005/cinema-checkout/pkg/kafka"
	pkgLog "github.com/rinday2005/cinema-checkout/pkg/logger"
	"github.com/rinday2005/cinema-checkout/pkg/qr"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})

	redisCli, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		l.Fatalf(ctx, "Failed to connect to Redis: %v", err)
	}
	defer redis.Disconnect(redisCli)

	relayRepo := repo.NewRedisRelayRepository(redisCli, cfg.Checkout.SessionTTL, l)
	attemptRepo := repo.NewRedisAttemptRepository(redisCli, cfg.Checkout.SessionTTL, l)

	// Initialize Kafka producer
	kafkaSyncProd, err := pkgKafka.NewProducer(pkgKafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		RetryMax:     cfg.Kafka.ProducerRetryMax,
		RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
	})
	if err != nil {
		l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
	}
	defer func() {
		if kafkaSyncProd != nil {
			kafkaSyncProd.Close()
		}
	}()

	prod := producer.NewProducer(kafkaSyncProd, l)

	bookingCli := booking.New(booking.Config{
		BaseURL: cfg.Booking.BaseURL,
		Timeout: cfg.Booking.Timeout,
	})

	renderer := qr.NewPNGRenderer(cfg.Checkout.QRSize)

	// Initialize services
	confirmSvc := service.NewConfirmationService(bookingCli, l)
	qrSvc := service.NewQRService(renderer, l)
	checkoutSvc := service.NewCheckoutService(relayRepo, attemptRepo, confirmSvc, qrSvc, prod, l, nil)
	ticketSvc := service.NewTicketService(relayRepo, attemptRepo, renderer, l)

	// http server
	handler := deliveryHttp.NewHTTPHandler(checkoutSvc, ticketSvc, l)
	router := deliveryHttp.NewRouter(handler, deliveryHttp.AuthMiddleware(cfg.JWT.Secret, l))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Infof(gCtx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		l.Info(gCtx, "Server shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		l.Errorf(ctx, "Server error: %v", err)
	}

	l.Info(ctx, "Server exited")
}
