// Package invoice prints ticket invoices as PDF documents.
//
// The package computes the invoice totals from an order, assembles a
// renderer-independent Document (seller header, invoice number and date,
// ticket table, net/tax/gross footer) and hands it to a Renderer.
//
// Amount handling:
//   - Ticket prices are gross prices (tax included)
//   - Totals are rounded once, at the footer, never per ticket
//   - Display format is "1 234,56  €"
//
// Output handling:
//   - The document is written to a temporary file next to the output path
//     and renamed into place only after rendering succeeded
//   - A failed run leaves no partial output; a file from an earlier run at
//     the output path is left as it was
//   - Failures are returned as *PrintError with a Kind (asset, io, render,
//     config, canceled)
package invoice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ticketinvoice/internal/logger"
	"ticketinvoice/pkg/models"
)

// DateLayout is the printed invoice date format (dd.MM.yyyy)
const DateLayout = "02.01.2006"

// Settings holds everything about an invoice that is not part of the order.
type Settings struct {
	// SellerName is the first line of the address block and the PDF author.
	SellerName string

	// SellerAddressLines follow the seller name. Empty lines are kept as
	// vertical spacing.
	SellerAddressLines []string

	// InvoiceNumber is printed in the H1 heading.
	InvoiceNumber string

	// InvoiceDate is printed in the H2 heading as dd.MM.yyyy.
	InvoiceDate time.Time

	// TaxRate is the tax fraction included in ticket prices (0.10 for 10%).
	TaxRate decimal.Decimal

	// OutputPath is where the PDF is written. An existing file is replaced.
	OutputPath string

	// LogoPath is the image shown in the header. Required.
	LogoPath string
}

// DefaultSettings returns the Ticketline 4.0 invoice settings
func DefaultSettings() Settings {
	return Settings{
		SellerName: "Ticketline 4.0 GmbH",
		SellerAddressLines: []string{
			"Hauptstrasse 1",
			"1010 - Wien",
			"",
			"office@ticketline4.at",
			"www.ticketline4.at",
		},
		InvoiceNumber: "3000492456",
		InvoiceDate:   time.Date(2022, time.April, 18, 0, 0, 0, 0, time.UTC),
		TaxRate:       decimal.RequireFromString("0.10"),
		OutputPath:    "./Inv.pdf",
		LogoPath:      "./assets/logo.png",
	}
}

// Validate reports settings the printer cannot work with
func (s Settings) Validate() error {
	if strings.TrimSpace(s.OutputPath) == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidSettings)
	}
	if strings.TrimSpace(s.LogoPath) == "" {
		return fmt.Errorf("%w: logo path is required", ErrInvalidSettings)
	}
	if s.TaxRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("%w: tax rate %s leaves no net amount", ErrInvalidSettings, s.TaxRate)
	}
	return nil
}

// Result describes a successfully printed invoice
type Result struct {
	// OutputPath is the final location of the PDF.
	OutputPath string

	// Invoice summarizes the printed amounts in cents.
	Invoice models.Invoice

	// Totals are the reconciled, two-decimal totals shown in the footer.
	Totals models.Totals

	// Pages is the number of pages in the document.
	Pages int

	// Bytes is the size of the written file.
	Bytes int64

	// Duration is how long computing and rendering took.
	Duration time.Duration
}

// Printer turns orders into invoice documents
type Printer struct {
	settings   Settings
	renderer   Renderer
	reconciler *TotalsReconciler
	log        zerolog.Logger
}

// NewPrinter creates a printer for settings. A nil renderer selects the
// PDF renderer.
func NewPrinter(settings Settings, renderer Renderer) (*Printer, error) {
	if err := settings.Validate(); err != nil {
		return nil, &PrintError{Op: "NewPrinter", Kind: KindConfig, Err: err}
	}
	if renderer == nil {
		renderer = NewPDFRenderer()
	}
	return &Printer{
		settings:   settings,
		renderer:   renderer,
		reconciler: NewTotalsReconciler(),
		log:        logger.WithInvoice("invoice-printer", settings.InvoiceNumber),
	}, nil
}

// Settings returns the settings the printer was built with
func (p *Printer) Settings() Settings {
	return p.settings
}

// Totals computes and reconciles the footer amounts for order
func (p *Printer) Totals(order models.Order) models.Totals {
	return p.reconciler.Reconcile(ComputeTotals(order, p.settings.TaxRate))
}

// Summary converts reconciled totals into the cent-based invoice model
func (p *Printer) Summary(order models.Order, totals models.Totals) models.Invoice {
	return models.Invoice{
		InvoiceNumber: p.settings.InvoiceNumber,
		IssueDate:     p.settings.InvoiceDate,
		Seller:        p.settings.SellerName,
		SellerAddress: p.settings.SellerAddressLines,
		NetAmount:     ToCents(totals.Net),
		VATAmount:     ToCents(totals.Tax),
		GrossAmount:   ToCents(totals.Gross),
		TaxRate:       p.settings.TaxRate,
		Currency:      Currency,
		Positions:     order.Len(),
	}
}

// Build assembles the document for order without touching the file system.
// The header logo is left empty; Print fills it in.
func (p *Printer) Build(order models.Order) (*Document, models.Totals) {
	totals := p.Totals(order)
	s := p.settings

	doc := &Document{
		Title:  "Rechnung " + s.InvoiceNumber,
		Author: s.SellerName,
		Date:   s.InvoiceDate,
		Header: Header{
			Address: append([]string{s.SellerName}, s.SellerAddressLines...),
		},
		Headings: []Heading{
			{Text: "Rechnung Nr. " + s.InvoiceNumber, Style: StyleH1},
			{Text: "Rechnungsdatum " + s.InvoiceDate.Format(DateLayout), Style: StyleH2},
		},
		Table: Table{
			Columns: [2]string{"Ticket", "Preis"},
		},
	}

	for _, t := range order.Tickets() {
		doc.AddRow(t.Title(), FormatAmount(t.Price()))
	}

	doc.Table.Footer = []FooterRow{
		{Label: "Gesamtsumme exkl. USt.", Amount: FormatAmount(totals.Net), Style: StylePosition},
		{Label: TaxLabel(s.TaxRate), Amount: FormatAmount(totals.Tax), Style: StylePosition},
		{Label: "Gesamtsumme inkl. USt.", Amount: FormatAmount(totals.Gross), Style: StyleH3},
	}

	return doc, totals
}

// Print renders order to the configured output path.
//
// The output is first written to a temporary file in the same directory and
// renamed over OutputPath only when rendering and closing succeeded. Every
// file handle is closed on every return path and the temporary file is
// removed on failure.
func (p *Printer) Print(ctx context.Context, order models.Order) (*Result, error) {
	const op = "Print"
	start := time.Now()

	p.log.Info().
		Int("tickets", order.Len()).
		Str("output", p.settings.OutputPath).
		Str("logo", p.settings.LogoPath).
		Msg("Printing invoice")

	if err := ctx.Err(); err != nil {
		return nil, newPrintError(op, KindCanceled, "", ErrContextCanceled, err)
	}

	logo, err := LoadImage(p.settings.LogoPath)
	if err != nil {
		p.log.Error().Err(err).Str("logo", p.settings.LogoPath).Msg("Failed to load logo")
		return nil, err
	}

	doc, totals := p.Build(order)
	doc.Header.Logo = logo

	if err := ctx.Err(); err != nil {
		return nil, newPrintError(op, KindCanceled, "", ErrContextCanceled, err)
	}

	pages, size, err := p.writeAtomically(doc)
	if err != nil {
		p.log.Error().Err(err).Str("output", p.settings.OutputPath).Msg("Failed to write invoice")
		return nil, err
	}

	result := &Result{
		OutputPath: p.settings.OutputPath,
		Invoice:    p.Summary(order, totals),
		Totals:     totals,
		Pages:      pages,
		Bytes:      size,
		Duration:   time.Since(start),
	}

	p.log.Info().
		Str("output", result.OutputPath).
		Int("pages", pages).
		Int64("bytes", size).
		Str("gross", totals.Gross.StringFixed(2)).
		Dur("duration", result.Duration).
		Msg("Invoice printed successfully")

	return result, nil
}

// writeAtomically renders doc into a temp file and moves it to OutputPath
func (p *Printer) writeAtomically(doc *Document) (pages int, size int64, err error) {
	const op = "WriteOutput"
	outPath := p.settings.OutputPath

	tmp, err := os.CreateTemp(filepath.Dir(outPath), "."+filepath.Base(outPath)+"-*.tmp")
	if err != nil {
		return 0, 0, newPrintError(op, KindIO, outPath, ErrOutputNotWritable, err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		// after a successful explicit Close this returns os.ErrClosed
		_ = tmp.Close()
		if !committed {
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				p.log.Warn().Err(rmErr).Str("file", tmpName).Msg("Failed to remove temporary invoice file")
			}
		}
	}()

	counter := &countingWriter{w: tmp}
	pages, err = p.renderer.Render(doc, counter)
	if err != nil {
		var printErr *PrintError
		if errors.As(err, &printErr) {
			return 0, 0, err
		}
		return 0, 0, newPrintError(op, KindRender, outPath, ErrRenderFailed, err)
	}

	if err := tmp.Sync(); err != nil {
		return 0, 0, newPrintError(op, KindIO, tmpName, ErrOutputNotWritable, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, 0, newPrintError(op, KindIO, tmpName, ErrOutputNotWritable, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, 0, newPrintError(op, KindIO, tmpName, ErrOutputNotWritable, err)
	}
	if err := os.Rename(tmpName, outPath); err != nil {
		return 0, 0, newPrintError(op, KindIO, outPath, ErrOutputNotWritable, err)
	}
	committed = true

	return pages, counter.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// LoadImage reads an image asset. A missing file yields ErrAssetMissing,
// any other read failure or an unsupported extension ErrAssetUnreadable.
func LoadImage(path string) (Image, error) {
	const op = "LoadLogo"

	imgType, ok := imageType(path)
	if !ok {
		return Image{}, newPrintError(op, KindAsset, path, ErrAssetUnreadable,
			fmt.Errorf("unsupported image type %q", filepath.Ext(path)))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Image{}, newPrintError(op, KindAsset, path, ErrAssetMissing, err)
		}
		return Image{}, newPrintError(op, KindAsset, path, ErrAssetUnreadable, err)
	}
	if len(data) == 0 {
		return Image{}, newPrintError(op, KindAsset, path, ErrAssetUnreadable, errors.New("empty file"))
	}

	return Image{Name: path, Type: imgType, Data: data}, nil
}

func imageType(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "PNG", true
	case ".jpg", ".jpeg":
		return "JPG", true
	case ".gif":
		return "GIF", true
	default:
		return "", false
	}
}
