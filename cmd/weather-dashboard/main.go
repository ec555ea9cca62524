package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"github.com/k-shtanenko/weather-dashboard/internal/bootstrap"
)

func main() {
	if err := loadDotEnv(".env"); err != nil {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	app, err := bootstrap.NewBootstrap()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

// loadDotEnv fills unset environment variables from path. A missing file is
// not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
