package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"ticketinvoice/internal/config"
	"ticketinvoice/internal/logger"
)

var version = "1.0.0"

// appConfig is set by Execute before any command runs
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "ticketinvoice",
	Short: "Ticket invoice CLI - print PDF invoices for ticket orders",
	Long: `Ticket invoice CLI renders a fixed-layout PDF invoice for a list of
purchased tickets: seller header with logo, invoice number and date, one row
per ticket and a footer with net total, tax and gross total.

Seller details, invoice number, date, tax rate and file paths are read from
the environment (or a .env file) and can be overridden per run with flags.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Ticket invoice CLI executed")

		fmt.Println("Welcome to the ticket invoice CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the root command with cfg as the base configuration. The
// returned error has already been logged; the caller decides the exit code.
func Execute(cfg *config.Config) error {
	log := logger.WithComponent("cmd")
	appConfig = cfg

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		return err
	}
	return nil
}
