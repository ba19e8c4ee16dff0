package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"ticketinvoice/internal/config"
	"ticketinvoice/internal/invoice"
	"ticketinvoice/internal/logger"
	"ticketinvoice/internal/order"
	"ticketinvoice/pkg/models"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Render the PDF invoice for a ticket order",
	Long: `Render a fixed-layout PDF invoice for a ticket order.

The order is read from a YAML or JSON file given with --order. Without
--order the built-in sample order is printed. The output file is replaced on
every run; it is only written when rendering succeeded.

Environment variables (flags take precedence):
  SELLER_NAME     - First line of the seller address block
  SELLER_ADDRESS  - Remaining address lines separated by "|"
  INVOICE_NUMBER  - Invoice number printed in the heading
  INVOICE_DATE    - Invoice date (YYYY-MM-DD or DD.MM.YYYY)
  TAX_RATE        - Tax included in ticket prices (0.10 or 10%)
  OUTPUT_PATH     - PDF output path (default ./Inv.pdf)
  LOGO_PATH       - Header logo image (default ./assets/logo.png)`,
	Example: `  # Print the sample order to ./Inv.pdf
  ticketinvoice print

  # Print an order file to a custom path
  ticketinvoice print --order order.yaml -o invoices/3000492457.pdf --number 3000492457

  # Give every run its own file name (Invoice-<uuid>.pdf)
  ticketinvoice print --order order.yaml --unique-name`,
	Args: cobra.NoArgs,
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)

	addInvoiceFlags(printCmd)
	printCmd.Flags().StringP("output", "o", "", "Output PDF path (default: OUTPUT_PATH)")
	printCmd.Flags().String("logo", "", "Header logo image (default: LOGO_PATH)")
	printCmd.Flags().Bool("unique-name", false, "Write to Invoice-<uuid>.pdf in the output directory")
	printCmd.Flags().Int("timeout", 30, "Printing timeout in seconds")
}

// addInvoiceFlags registers the flags shared by print and totals
func addInvoiceFlags(cmd *cobra.Command) {
	cmd.Flags().String("order", "", "Order file (YAML or JSON); default: built-in sample order")
	cmd.Flags().String("tax-rate", "", "Tax rate as fraction or percent (default: TAX_RATE)")
	cmd.Flags().String("number", "", "Invoice number (default: INVOICE_NUMBER)")
	cmd.Flags().String("date", "", "Invoice date, YYYY-MM-DD or DD.MM.YYYY (default: INVOICE_DATE)")
}

func runPrint(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("print")

	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	ord, err := loadOrder(cmd, log)
	if err != nil {
		return err
	}

	log.Info().
		Str("invoice_number", settings.InvoiceNumber).
		Str("output", settings.OutputPath).
		Str("logo", settings.LogoPath).
		Int("tickets", ord.Len()).
		Int("timeout", timeoutSecs).
		Msg("Starting invoice printing")

	ctx, cancel := createPrintContext(timeoutSecs, log)
	defer cancel()

	printer, err := invoice.NewPrinter(settings, nil)
	if err != nil {
		return handlePrintError(err, log)
	}

	result, err := printer.Print(ctx, ord)
	if err != nil {
		return handlePrintError(err, log)
	}

	fmt.Printf("Invoice %s written to %s (%d page(s), %d bytes)\n",
		result.Invoice.InvoiceNumber, result.OutputPath, result.Pages, result.Bytes)
	fmt.Printf("  Gesamtsumme exkl. USt.  %s\n", invoice.FormatAmount(result.Totals.Net))
	fmt.Printf("  %-22s  %s\n", invoice.TaxLabel(settings.TaxRate), invoice.FormatAmount(result.Totals.Tax))
	fmt.Printf("  Gesamtsumme inkl. USt.  %s\n", invoice.FormatAmount(result.Totals.Gross))

	return nil
}

// resolveSettings layers command flags over the environment configuration
func resolveSettings(cmd *cobra.Command) (invoice.Settings, error) {
	settings := invoice.DefaultSettings()
	if appConfig != nil {
		settings = appConfig.GetInvoiceSettings()
	}

	if v, _ := cmd.Flags().GetString("number"); v != "" {
		settings.InvoiceNumber = v
	}
	if v, _ := cmd.Flags().GetString("date"); v != "" {
		date, err := config.ParseDate(v)
		if err != nil {
			return invoice.Settings{}, fmt.Errorf("--date: %w", err)
		}
		settings.InvoiceDate = date
	}
	if v, _ := cmd.Flags().GetString("tax-rate"); v != "" {
		rate, err := config.ParseTaxRate(v)
		if err != nil {
			return invoice.Settings{}, fmt.Errorf("--tax-rate: %w", err)
		}
		settings.TaxRate = rate
	}

	// print-only flags
	if f := cmd.Flags().Lookup("output"); f != nil && f.Value.String() != "" {
		settings.OutputPath = f.Value.String()
	}
	if f := cmd.Flags().Lookup("logo"); f != nil && f.Value.String() != "" {
		settings.LogoPath = f.Value.String()
	}
	if unique, err := cmd.Flags().GetBool("unique-name"); err == nil && unique {
		settings.OutputPath = uniqueOutputPath(settings.OutputPath)
	}

	return settings, nil
}

// uniqueOutputPath places Invoice-<uuid>.pdf next to the configured output
func uniqueOutputPath(outputPath string) string {
	return filepath.Join(filepath.Dir(outputPath), "Invoice-"+uuid.NewString()+".pdf")
}

// loadOrder reads --order or falls back to the sample order
func loadOrder(cmd *cobra.Command, log zerolog.Logger) (models.Order, error) {
	path, _ := cmd.Flags().GetString("order")
	if path == "" {
		log.Info().Msg("No order file given, using sample order")
		return models.SampleOrder(), nil
	}

	ord, err := order.NewReader().ReadFile(path)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", path).
			Msg("Failed to read order file")
		if errors.Is(err, fs.ErrNotExist) {
			return models.Order{}, fmt.Errorf("order file not found: %s", path)
		}
		return models.Order{}, fmt.Errorf("failed to read order file: %w", err)
	}
	return ord, nil
}

// createPrintContext creates a context with timeout and signal handling
func createPrintContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling invoice printing")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
	}()

	return ctx, cancel
}

// handlePrintError provides user-friendly error messages for printing failures
func handlePrintError(err error, log zerolog.Logger) error {
	kind, _ := invoice.KindOf(err)
	log.Error().
		Err(err).
		Str("kind", kind.String()).
		Msg("Invoice printing failed")

	switch {
	case errors.Is(err, invoice.ErrAssetMissing):
		return fmt.Errorf("logo image not found. Set LOGO_PATH or pass --logo: %w", err)
	case errors.Is(err, invoice.ErrAssetUnreadable):
		return fmt.Errorf("logo image cannot be used. Use a readable PNG, JPG or GIF file: %w", err)
	case errors.Is(err, invoice.ErrOutputNotWritable):
		return fmt.Errorf("cannot write the invoice PDF. Check that the output directory exists and is writable: %w", err)
	case errors.Is(err, invoice.ErrInvalidSettings):
		return fmt.Errorf("invalid invoice settings: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("invoice printing timed out. Try increasing --timeout")
	case errors.Is(err, invoice.ErrContextCanceled), errors.Is(err, context.Canceled):
		return fmt.Errorf("invoice printing was canceled")
	default:
		return fmt.Errorf("invoice printing failed: %w", err)
	}
}
