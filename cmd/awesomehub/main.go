package main

import (
	"log"

	"github.com/MrSnakeDoc/awesomehub/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ awesomehub failed to start: %v", err)
	}
}
