package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/thealper2/llava-image-archiver/config"
	"github.com/thealper2/llava-image-archiver/internal/app"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load .env file: %s", err)
		}
	}

	// Configuration
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	// Run
	app.Run(cfg)
}
