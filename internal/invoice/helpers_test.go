package invoice_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ticketinvoice/internal/invoice"
)

// writeLogo writes a small grayscale PNG into dir and returns its path
func writeLogo(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 22, 40))
	for x := 0; x < 22; x++ {
		img.SetGray(x, x, color.Gray{Y: 200})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// testSettings returns settings writing to outDir with a fresh logo
func testSettings(t *testing.T) invoice.Settings {
	t.Helper()

	s := invoice.DefaultSettings()
	s.LogoPath = writeLogo(t, t.TempDir())
	s.OutputPath = filepath.Join(t.TempDir(), "Inv.pdf")
	s.InvoiceDate = time.Date(2022, time.April, 18, 0, 0, 0, 0, time.UTC)
	s.TaxRate = decimal.RequireFromString("0.10")
	return s
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
