package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"hcp-chatbot-be/internal/bootstrap"
	"hcp-chatbot-be/internal/config"
	"hcp-chatbot-be/internal/server"
	"hcp-chatbot-be/internal/tracer"
	"hcp-chatbot-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.IsProduction(), database.PoolConfig{})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer("hcp-chatbot-backend", container.Logger)
	defer shutdownTracer(context.Background())

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Panicf("Unable to start turn consumer: %v", err)
	}

	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil {
		container.Logger.Error("SERVER", "Server stopped with error", map[string]interface{}{"error": err.Error()})
	}
}
