package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/activities"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/config"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/handlers"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/logging"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/router"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/service"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/storage"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/websocket"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/workflows"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Resolve("server", os.Args[1:], os.LookupEnv)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		logrus.Fatalf("Invalid logging configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	store, err := storage.Open(ctx, storage.Options{
		Backend:     cfg.Storage.Backend,
		Path:        cfg.Storage.Path,
		DatabaseURL: cfg.Storage.DatabaseURL,
		RedisAddr:   cfg.Storage.RedisAddr,
		RedisPrefix: cfg.Storage.RedisPrefix,
	})
	if err != nil {
		return err
	}
	defer store.Close()
	logger.WithField("backend", cfg.Storage.Backend).Info("Storage ready")

	var temporalClient client.Client
	if cfg.Temporal.Enabled {
		temporalClient, err = client.Dial(client.Options{
			HostPort:  cfg.Temporal.Host,
			Namespace: cfg.Temporal.Namespace,
			Logger:    logging.NewTemporalLogger(logger.WithField("component", "temporal")),
		})
		if err != nil {
			return err
		}
		defer temporalClient.Close()
		logger.WithField("host", cfg.Temporal.Host).Info("Connected to Temporal")
	}

	hub := websocket.NewHub(logger.WithField("component", "websocket"))

	// Initialize services
	operationsService := service.NewOperationsService(service.Options{
		AirlineName: cfg.Airline.Name,
		SeedSamples: cfg.Airline.SeedSamples,
		Storage:     store,
		StorageName: cfg.Storage.Backend,
		Autosave:    cfg.Storage.Autosave,
		Notifier:    hub,
		Temporal:    temporalClient,
		TaskQueue:   cfg.Temporal.TaskQueue,
		SeatHold:    cfg.Temporal.SeatHold,
		Logger:      logger,
	})
	if cfg.Storage.LoadOnStart {
		result, err := operationsService.Load(ctx)
		if err != nil {
			return err
		}
		logger.WithField("flights", result.Flights).Info("Flights loaded")
	}

	h := handlers.NewHandler(operationsService)
	r := router.SetupRouter(h, hub, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      gorillahandlers.CombinedLoggingHandler(logger.Writer(), r),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if temporalClient != nil {
		w := worker.New(temporalClient, cfg.Temporal.TaskQueue, worker.Options{})
		w.RegisterWorkflowWithOptions(workflows.TicketBookingWorkflow, workflow.RegisterOptions{Name: service.BookingWorkflowName})
		activities.Register(w, activities.NewActivities(operationsService))
		if err := w.Start(); err != nil {
			return err
		}
		logger.WithField("taskQueue", cfg.Temporal.TaskQueue).Info("Temporal worker started")
		g.Go(func() error {
			<-gctx.Done()
			w.Stop()
			return nil
		})
	}

	g.Go(func() error {
		logger.WithField("port", cfg.Server.Port).Info("API Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	if cfg.Storage.Autosave {
		if _, serr := operationsService.Save(context.Background()); serr != nil {
			logger.WithError(serr).Error("Final save failed")
		}
	}
	return err
}
