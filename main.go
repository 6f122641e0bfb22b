package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rnakai/typedrill/cmd"
)

func main() {
	// Optional .env for backend settings; missing file is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
