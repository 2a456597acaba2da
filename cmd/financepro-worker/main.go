package main

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"financepro/internal/cli"
	"financepro/internal/log"
	"financepro/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if !cfg.AMQPEnabled() {
		cli.Fatal(logger, "Worker needs an event bus", errors.New("AMQP_URL is not set"))
	}

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()

	mirror, err := cli.NewMirror(ctx, logger, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize mirror", err)
	}

	client := cli.ConnectAMQP(logger, cfg)
	if client == nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", errors.New("connection failed"))
	}
	defer client.Close()

	w := worker.NewMirrorWorker(mirror, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting financepro-worker", "backend", cfg.MirrorBackend, "queue", cfg.AMQPQueue)
		return client.Consume(gctx, w.HandleEvent)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		cli.Fatal(logger, "Worker stopped with error", err)
	}
	logger.Info("Worker stopped gracefully")
}
