package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudstore-app/cloudstore-service/config"
	"github.com/cloudstore-app/cloudstore-service/consumer/worker"
	infraPkg "github.com/cloudstore-app/cloudstore-service/infra"
	"github.com/cloudstore-app/cloudstore-service/repository"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	organizeConsumer := worker.NewOrganizeConsumer(infra.RabbitMQ.Channel, infra, repo)
	if err := organizeConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Organize consumer: %v", err)
		log.Fatalf("Failed to start Organize consumer: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
	infra.Shutdown(context.Background())
}
