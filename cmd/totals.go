package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"ticketinvoice/internal/invoice"
	"ticketinvoice/internal/logger"
)

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Compute invoice totals for a ticket order without rendering",
	Long: `Compute net total, tax and gross total for a ticket order and print
them as JSON. No logo is needed and no PDF is written.

Amounts are reported both in cents and in the printed invoice format.`,
	Example: `  # Totals of the sample order
  ticketinvoice totals

  # Totals of an order file at 20% tax, saved to a file
  ticketinvoice totals --order order.yaml --tax-rate 20% -o totals.json`,
	Args: cobra.NoArgs,
	RunE: runTotals,
}

// TotalsOutput represents the JSON output structure for the totals command
type TotalsOutput struct {
	InvoiceNumber string    `json:"invoice_number"`
	InvoiceDate   string    `json:"invoice_date"`
	Tickets       int       `json:"tickets"`
	TaxRate       string    `json:"tax_rate"`
	NetAmount     int64     `json:"net_amount_cents"`
	VATAmount     int64     `json:"vat_amount_cents"`
	GrossAmount   int64     `json:"gross_amount_cents"`
	Currency      string    `json:"currency"`
	Formatted     Formatted `json:"formatted"`
	ComputedAt    time.Time `json:"computed_at"`
}

// Formatted holds the amounts exactly as printed on the invoice
type Formatted struct {
	Net   string `json:"net"`
	Tax   string `json:"tax"`
	Gross string `json:"gross"`
}

func init() {
	rootCmd.AddCommand(totalsCmd)

	addInvoiceFlags(totalsCmd)
	totalsCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}

func runTotals(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("totals")

	outputPath, _ := cmd.Flags().GetString("output")

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	// totals never writes a PDF; keep the printer's path checks satisfied
	settings.OutputPath = os.DevNull

	ord, err := loadOrder(cmd, log)
	if err != nil {
		return err
	}

	printer, err := invoice.NewPrinter(settings, nil)
	if err != nil {
		return handlePrintError(err, log)
	}

	totals := printer.Totals(ord)
	summary := printer.Summary(ord, totals)

	output := TotalsOutput{
		InvoiceNumber: summary.InvoiceNumber,
		InvoiceDate:   summary.IssueDate.Format(invoice.DateLayout),
		Tickets:       summary.Positions,
		TaxRate:       summary.TaxRate.String(),
		NetAmount:     summary.NetAmount,
		VATAmount:     summary.VATAmount,
		GrossAmount:   summary.GrossAmount,
		Currency:      summary.Currency,
		Formatted: Formatted{
			Net:   invoice.FormatAmount(totals.Net),
			Tax:   invoice.FormatAmount(totals.Tax),
			Gross: invoice.FormatAmount(totals.Gross),
		},
		ComputedAt: time.Now(),
	}

	log.Info().
		Int("tickets", output.Tickets).
		Int64("gross_cents", output.GrossAmount).
		Msg("Invoice totals computed")

	return outputTotals(output, outputPath, cmd.OutOrStdout(), log)
}

// outputTotals writes the totals as indented JSON to a file or to stdout
func outputTotals(output TotalsOutput, outputPath string, stdout io.Writer, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal totals to JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(jsonData)).
			Msg("Totals written to file")
		return nil
	}

	if _, err := fmt.Fprintf(stdout, "%s\n", jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
