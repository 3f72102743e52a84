package main

import (
	"context"
	"log"

	"github.com/cloudstore-app/cloudstore-service/config"
	"github.com/cloudstore-app/cloudstore-service/http/controller"
	routes "github.com/cloudstore-app/cloudstore-service/http/route"
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
	defer infra.Shutdown(context.Background())

	repo := repository.InitRepository(infra)

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	log.Printf("HTTP Server started on :%s", cfg.EnvConfig.Port)
	if err := router.Run(":" + cfg.EnvConfig.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
