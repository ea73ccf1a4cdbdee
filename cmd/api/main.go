package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/Apurer/go-gin-storefront/internal/app/api"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("storefront BFF stopped: %v", err)
	}
}
