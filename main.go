package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"ticketinvoice/cmd"
	"ticketinvoice/internal/config"
	"ticketinvoice/internal/logger"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the process exit code: 2 for an invalid
// configuration, 1 for a failed command.
func run() int {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		if _, setupErr := logger.Setup(logger.DefaultConfig()); setupErr != nil {
			log.Fatalf("Failed to initialize logger: %v", setupErr)
		}
		mainLog := logger.WithComponent("main")
		mainLog.Error().Err(err).Msg("Invalid configuration")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	closer, err := logger.Setup(cfg.GetLoggerConfig())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	mainLog := logger.WithComponent("main")
	mainLog.Info().Msg("Starting ticket invoice CLI")

	// Execute CLI commands
	execErr := cmd.Execute(cfg)

	mainLog.Info().Msg("Ticket invoice CLI shutdown")
	_ = closer.Close()

	if execErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", execErr)
		return 1
	}
	return 0
}
