package main

import (
	"context"
	"os"
	"os/signal"
	"shutter/config"
	"shutter/di"
	"shutter/shared/logger"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	if err := worker.Scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	var wg sync.WaitGroup

	if cfg.Kafka.Enable {
		wg.Add(1)

		go func() {
			defer wg.Done()

			worker.Consumer.Run(ctx)
		}()
	} else {
		log.Warn().Msg("Kafka is disabled, notifications are dispatched in process by the API.")
	}

	log.Info().Msg("Worker started.")

	<-ctx.Done()

	log.Info().Msg("Received shutdown signal.")

	worker.Scheduler.Stop()
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := worker.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client")
	}

	if err := worker.Otel.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown tracer")
	}

	log.Info().Msg("Worker stopped.")
}
