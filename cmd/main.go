package main

import (
	"log"

	"telemed-platform/cmd/bootstrap"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.Run()
}
