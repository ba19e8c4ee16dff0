package invoice

import (
	"bytes"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"ticketinvoice/internal/logger"
)

// A4 portrait layout in points
const (
	marginLeft   = 80.0
	marginTop    = 50.0
	marginRight  = 50.0
	marginBottom = 50.0

	logoWidth     = 110.0
	logoMaxHeight = 200.0
	headerSplit   = 0.7 // logo column share of the content width

	headingSpacing = 80.0
	tableSpacing   = 10.0
	titleColumn    = 0.9
	rowHeight      = 14.0
)

type fontSpec struct {
	family string
	style  string
	size   float64
}

var fonts = map[Style]fontSpec{
	StyleH1:       {"Helvetica", "B", 14},
	StyleH2:       {"Helvetica", "B", 12},
	StyleH3:       {"Helvetica", "B", 10},
	StylePosition: {"Helvetica", "", 8},
	StyleAddress:  {"Helvetica", "", 10},
}

// PDFRenderer renders invoices with go-pdf/fpdf
type PDFRenderer struct {
	// Compress enables stream compression. Disable it to inspect output.
	Compress bool

	log zerolog.Logger
}

// NewPDFRenderer creates a renderer producing compressed A4 documents
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{
		Compress: true,
		log:      logger.WithComponent("pdf-renderer"),
	}
}

// Render lays out doc on A4 pages and writes the PDF to w
func (r *PDFRenderer) Render(doc *Document, w io.Writer) (int, error) {
	const op = "Render"

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetCompression(r.Compress)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator("ticketinvoice", true)
	if !doc.Date.IsZero() {
		pdf.SetCreationDate(doc.Date)
	}

	// cp1252 so that € and umlauts survive the core fonts
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	if err := r.header(pdf, tr, doc.Header); err != nil {
		return 0, err
	}
	r.headings(pdf, tr, doc.Headings)
	r.table(pdf, tr, doc.Table)

	if err := pdf.Error(); err != nil {
		return 0, newPrintError(op, KindRender, "", ErrRenderFailed, err)
	}

	pages := pdf.PageCount()
	if err := pdf.Output(w); err != nil {
		return 0, newPrintError(op, KindIO, "", ErrOutputNotWritable, err)
	}

	r.log.Debug().
		Int("pages", pages).
		Int("rows", len(doc.Table.Rows)).
		Msg("Invoice document rendered")

	return pages, nil
}

func (r *PDFRenderer) header(pdf *fpdf.Fpdf, tr func(string) string, h Header) error {
	left, top, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - left - right

	logoH := 0.0
	if len(h.Logo.Data) > 0 {
		opts := fpdf.ImageOptions{ImageType: strings.ToLower(h.Logo.Type)}
		info := pdf.RegisterImageOptionsReader(h.Logo.Name, opts, bytes.NewReader(h.Logo.Data))
		if !pdf.Ok() || info == nil {
			return newPrintError("RegisterLogo", KindAsset, h.Logo.Name, ErrAssetUnreadable, pdf.Error())
		}

		logoH = logoMaxHeight
		if info.Width() > 0 {
			logoH = min(logoWidth*info.Height()/info.Width(), logoMaxHeight)
		}
		pdf.ImageOptions(h.Logo.Name, left, top, logoWidth, logoH, false, opts, 0, "")
	}

	addrX := left + contentW*headerSplit
	addrW := contentW * (1 - headerSplit)
	lineH := setFont(pdf, StyleAddress).size * 1.3

	pdf.SetY(top)
	for _, line := range h.Address {
		pdf.SetX(addrX)
		pdf.CellFormat(addrW, lineH, tr(line), "", 2, "L", false, 0, "")
	}

	pdf.SetY(max(top+logoH, pdf.GetY()))
	return nil
}

func (r *PDFRenderer) headings(pdf *fpdf.Fpdf, tr func(string) string, headings []Heading) {
	pdf.SetY(pdf.GetY() + headingSpacing)
	for _, h := range headings {
		spec := setFont(pdf, h.Style)
		pdf.CellFormat(0, spec.size*1.4, tr(h.Text), "", 1, "L", false, 0, "")
	}
}

func (r *PDFRenderer) table(pdf *fpdf.Fpdf, tr func(string) string, t Table) {
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - left - right
	titleW := contentW * titleColumn
	priceW := contentW - titleW

	pdf.SetY(pdf.GetY() + tableSpacing)
	pdf.SetLineWidth(1)

	setFont(pdf, StyleH3)
	pdf.CellFormat(titleW, 18, tr(t.Columns[0]), "B", 0, "L", false, 0, "")
	pdf.CellFormat(priceW, 18, tr(t.Columns[1]), "B", 1, "L", false, 0, "")

	setFont(pdf, StylePosition)
	for _, row := range t.Rows {
		r.row(pdf, tr(row.Title), tr(row.Price), titleW, priceW)
	}

	pdf.CellFormat(contentW, 4, "", "T", 1, "L", false, 0, "")

	for _, f := range t.Footer {
		h := setFont(pdf, f.Style).size * 1.6
		pdf.CellFormat(titleW, h, tr(f.Label), "", 0, "R", false, 0, "")
		pdf.CellFormat(priceW, h, tr(f.Amount), "", 1, "R", false, 0, "")
	}
}

// row draws one ticket line. Long titles wrap inside the title column and
// the row grows with them; a row is never split across pages.
func (r *PDFRenderer) row(pdf *fpdf.Fpdf, title, price string, titleW, priceW float64) {
	lines := max(len(pdf.SplitLines([]byte(title), titleW)), 1)
	h := float64(lines) * rowHeight

	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+h > pageH-marginBottom {
		pdf.AddPage()
	}

	x, y := pdf.GetXY()
	pdf.MultiCell(titleW, rowHeight, title, "", "L", false)
	pdf.SetXY(x+titleW, y)
	pdf.CellFormat(priceW, rowHeight, price, "", 0, "R", false, 0, "")
	pdf.SetXY(x, y+h)
}

// setFont selects the font for style, falling back to the position font,
// and returns it so callers can derive line heights.
func setFont(pdf *fpdf.Fpdf, style Style) fontSpec {
	spec, ok := fonts[style]
	if !ok {
		spec = fonts[StylePosition]
	}
	pdf.SetFont(spec.family, spec.style, spec.size)
	return spec
}
