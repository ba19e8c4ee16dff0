package invoice_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketinvoice/internal/invoice"
	"ticketinvoice/pkg/models"
)

func TestPrinter_Build(t *testing.T) {
	printer, err := invoice.NewPrinter(testSettings(t), nil)
	require.NoError(t, err)

	doc, totals := printer.Build(models.SampleOrder())

	assert.Equal(t, "Ticketline 4.0 GmbH", doc.Header.Address[0])
	assert.Equal(t, "office@ticketline4.at", doc.Header.Address[4])
	assert.Empty(t, doc.Header.Logo.Data)

	require.Len(t, doc.Headings, 2)
	assert.Equal(t, invoice.Heading{Text: "Rechnung Nr. 3000492456", Style: invoice.StyleH1}, doc.Headings[0])
	assert.Equal(t, invoice.Heading{Text: "Rechnungsdatum 18.04.2022", Style: invoice.StyleH2}, doc.Headings[1])

	assert.Equal(t, [2]string{"Ticket", "Preis"}, doc.Table.Columns)
	require.Len(t, doc.Table.Rows, 3)
	assert.Equal(t, invoice.Row{Title: "THE ROLLING STONES - SIXTY Sektor B (Stehplatz)", Price: "19,95  €"}, doc.Table.Rows[2])

	assert.Equal(t, []invoice.FooterRow{
		{Label: "Gesamtsumme exkl. USt.", Amount: "90,77  €", Style: invoice.StylePosition},
		{Label: "10% USt.", Amount: "9,08  €", Style: invoice.StylePosition},
		{Label: "Gesamtsumme inkl. USt.", Amount: "99,85  €", Style: invoice.StyleH3},
	}, doc.Table.Footer)

	assert.Equal(t, "99.85", totals.Gross.StringFixed(2))
}

func TestPrinter_BuildEmptyOrder(t *testing.T) {
	printer, err := invoice.NewPrinter(testSettings(t), nil)
	require.NoError(t, err)

	doc, totals := printer.Build(models.NewOrder())

	assert.Empty(t, doc.Table.Rows)
	assert.True(t, totals.Gross.IsZero())
	for _, f := range doc.Table.Footer {
		assert.Equal(t, "0,00  €", f.Amount)
	}
}

func TestPrinter_Print(t *testing.T) {
	settings := testSettings(t)
	printer, err := invoice.NewPrinter(settings, nil)
	require.NoError(t, err)

	result, err := printer.Print(context.Background(), models.SampleOrder())
	require.NoError(t, err)

	data, err := os.ReadFile(settings.OutputPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
	assert.Contains(t, string(data), "%%EOF")

	assert.Equal(t, settings.OutputPath, result.OutputPath)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, int64(len(data)), result.Bytes)
	assert.Equal(t, int64(9077), result.Invoice.NetAmount)
	assert.Equal(t, int64(908), result.Invoice.VATAmount)
	assert.Equal(t, int64(9985), result.Invoice.GrossAmount)
	assert.Equal(t, "EUR", result.Invoice.Currency)
	assert.Equal(t, 3, result.Invoice.Positions)

	// no temporary files left next to the output
	assert.Equal(t, []string{"Inv.pdf"}, dirEntries(t, filepath.Dir(settings.OutputPath)))
}

func TestPrinter_PrintOverwritesExistingOutput(t *testing.T) {
	settings := testSettings(t)
	require.NoError(t, os.WriteFile(settings.OutputPath, []byte("old"), 0o644))

	printer, err := invoice.NewPrinter(settings, nil)
	require.NoError(t, err)

	_, err = printer.Print(context.Background(), models.SampleOrder())
	require.NoError(t, err)

	data, err := os.ReadFile(settings.OutputPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestPrinter_PrintManyTicketsSpansPages(t *testing.T) {
	settings := testSettings(t)
	printer, err := invoice.NewPrinter(settings, nil)
	require.NoError(t, err)

	tickets := make([]models.Ticket, 150)
	for i := range tickets {
		tickets[i] = models.NewTicket("Stehplatz", decimal.RequireFromString("19.95"))
	}

	result, err := printer.Print(context.Background(), models.NewOrder(tickets...))
	require.NoError(t, err)
	assert.Greater(t, result.Pages, 1)
	assert.Equal(t, int64(299250), result.Invoice.GrossAmount)
}

func TestPrinter_PrintMissingLogo(t *testing.T) {
	settings := testSettings(t)
	settings.LogoPath = filepath.Join(t.TempDir(), "assets", "logo.png")

	printer, err := invoice.NewPrinter(settings, nil)
	require.NoError(t, err)

	result, err := printer.Print(context.Background(), models.SampleOrder())
	require.Error(t, err)
	assert.Nil(t, result)

	assert.ErrorIs(t, err, invoice.ErrAssetMissing)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	kind, ok := invoice.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, invoice.KindAsset, kind)

	_, statErr := os.Stat(settings.OutputPath)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
	assert.Empty(t, dirEntries(t, filepath.Dir(settings.OutputPath)))
}

func TestPrinter_PrintCorruptLogo(t *testing.T) {
	settings := testSettings(t)
	require.NoError(t, os.WriteFile(settings.LogoPath, []byte("definitely not a png"), 0o644))

	printer, err := invoice.NewPrinter(settings, nil)
	require.NoError(t, err)

	_, err = printer.Print(context.Background(), models.SampleOrder())
	assert.ErrorIs(t, err, invoice.ErrAssetUnreadable)
	assert.Empty(t, dirEntries(t, filepath.Dir(settings.OutputPath)))
}

func TestPrinter_PrintUnsupportedLogoType(t *testing.T) {
	settings := testSettings(t)
	settings.LogoPath = strings.TrimSuffix(settings.LogoPath, ".png") + ".bmp"

	printer, err := invoice.NewPrinter(settings, nil)
	require.NoError(t, err)

	_, err = printer.Print(context.Background(), models.SampleOrder())
	assert.ErrorIs(t, err, invoice.ErrAssetUnreadable)
}

func TestPrinter_PrintOutputDirMissing(t *testing.T) {
	settings := testSettings(t)
	settings.OutputPath = filepath.Join(t.TempDir(), "missing", "Inv.pdf")

	printer, err := invoice.NewPrinter(settings, nil)
	require.NoError(t, err)

	_, err = printer.Print(context.Background(), models.SampleOrder())
	assert.ErrorIs(t, err, invoice.ErrOutputNotWritable)
	kind, _ := invoice.KindOf(err)
	assert.Equal(t, invoice.KindIO, kind)
}

type failingRenderer struct{}

func (failingRenderer) Render(_ *invoice.Document, w io.Writer) (int, error) {
	_, _ = io.WriteString(w, "%PDF-1.3 partial")
	return 0, errors.New("boom")
}

func TestPrinter_PrintRenderFailureKeepsPreviousOutput(t *testing.T) {
	settings := testSettings(t)
	require.NoError(t, os.WriteFile(settings.OutputPath, []byte("previous invoice"), 0o644))

	printer, err := invoice.NewPrinter(settings, failingRenderer{})
	require.NoError(t, err)

	_, err = printer.Print(context.Background(), models.SampleOrder())
	assert.ErrorIs(t, err, invoice.ErrRenderFailed)
	kind, _ := invoice.KindOf(err)
	assert.Equal(t, invoice.KindRender, kind)

	data, readErr := os.ReadFile(settings.OutputPath)
	require.NoError(t, readErr)
	assert.Equal(t, "previous invoice", string(data))
	assert.Equal(t, []string{"Inv.pdf"}, dirEntries(t, filepath.Dir(settings.OutputPath)))
}

func TestPrinter_PrintCanceled(t *testing.T) {
	settings := testSettings(t)
	printer, err := invoice.NewPrinter(settings, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = printer.Print(ctx, models.SampleOrder())
	assert.ErrorIs(t, err, invoice.ErrContextCanceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dirEntries(t, filepath.Dir(settings.OutputPath)))
}

func TestNewPrinter_InvalidSettings(t *testing.T) {
	tests := map[string]func(*invoice.Settings){
		"empty output": func(s *invoice.Settings) { s.OutputPath = " " },
		"empty logo":   func(s *invoice.Settings) { s.LogoPath = "" },
		"rate -100%":   func(s *invoice.Settings) { s.TaxRate = decimal.NewFromInt(-1) },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			s := invoice.DefaultSettings()
			mutate(&s)

			_, err := invoice.NewPrinter(s, nil)
			assert.ErrorIs(t, err, invoice.ErrInvalidSettings)
			kind, _ := invoice.KindOf(err)
			assert.Equal(t, invoice.KindConfig, kind)
		})
	}
}

func TestPrintError_Message(t *testing.T) {
	_, err := invoice.LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice: LoadLogo failed")
	assert.Contains(t, err.Error(), "nope.png")
}
