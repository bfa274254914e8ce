package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/pointmoney/pointmoney/internal/cli"
)

func main() {
	// Load .env if present (for local development).
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
