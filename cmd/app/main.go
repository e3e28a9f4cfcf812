package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/gig-agreements/pkg/blockchain"
	"github.com/chris/gig-agreements/pkg/config"
	"github.com/chris/gig-agreements/pkg/events"
	"github.com/chris/gig-agreements/pkg/handlers"
	wshandler "github.com/chris/gig-agreements/pkg/handlers/websockets"
	"github.com/chris/gig-agreements/pkg/service"
	"github.com/chris/gig-agreements/pkg/storage"
	"github.com/chris/gig-agreements/pkg/storage/dynamodb"
	"github.com/chris/gig-agreements/pkg/storage/memory"
	"github.com/chris/gig-agreements/pkg/uploads"
	"github.com/chris/gig-agreements/pkg/websockets"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Storage
	var publishers events.Multi
	var uploader uploads.Uploader = uploads.Digest{}

	hub := websockets.NewHub()
	publishers = append(publishers, &websockets.Notifier{Publisher: hub})

	needsAWS := cfg.StorageDriver == config.DriverDynamoDB || cfg.SQSQueueURL != "" || cfg.EvidenceBucket != ""
	if needsAWS {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			slog.Error("Unable to load AWS SDK config", "error", err)
			os.Exit(1)
		}
		if cfg.StorageDriver == config.DriverDynamoDB {
			store = dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables)
		}
		if cfg.SQSQueueURL != "" {
			publishers = append(publishers, events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL))
		}
		if cfg.EvidenceBucket != "" {
			uploader = uploads.NewS3Uploader(s3.NewFromConfig(awsCfg), cfg.EvidenceBucket, cfg.EvidenceBaseURL)
		}
	}
	if store == nil {
		slog.Warn("Using in-memory storage, data is lost on restart")
		store = memory.New()
	}

	networks, err := cfg.Networks(os.Environ())
	if err != nil {
		slog.Error("Invalid blockchain networks", "error", err)
		os.Exit(1)
	}
	var verifier service.Verifier
	if len(networks) > 0 {
		v := blockchain.NewVerifier(networks)
		defer v.Close()
		verifier = v
		slog.Info("Blockchain verification enabled", "networks", networks.Names())
	} else {
		slog.Warn("No blockchain networks configured, verification is disabled")
	}

	svc := service.New(store, verifier, uploader, publishers)
	router := handlers.NewRouter(svc, handlers.Options{
		Logger:       logger,
		HideInternal: cfg.IsProduction(),
		WebSocket:    wshandler.NewHandler(store, hub),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}
	go func() {
		slog.Info("Starting server", "port", cfg.HTTPPort, "env", cfg.AppEnv, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
