package main

import (
	"log"

	"HealthService/config"
	"HealthService/internal/api"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	if err := api.Run(cfg); err != nil {
		log.Fatalf("Health service error: %s", err)
	}
}
