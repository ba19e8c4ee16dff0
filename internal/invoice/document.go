package invoice

import (
	"io"
	"time"
)

// Style tags a text block with one of the fixed invoice fonts
type Style string

const (
	StyleH1       Style = "H1"
	StyleH2       Style = "H2"
	StyleH3       Style = "H3"
	StylePosition Style = "POS"
	StyleAddress  Style = "ADDRESS"
)

// Image is an in-memory image asset
type Image struct {
	Name string // registration key, usually the source path
	Type string // PNG, JPG or GIF
	Data []byte
}

// Header is the block at the top of the first page
type Header struct {
	Logo    Image
	Address []string
}

// Heading is a standalone line of styled text
type Heading struct {
	Text  string
	Style Style
}

// Row is one ticket position
type Row struct {
	Title string
	Price string
}

// FooterRow pairs a label with an already formatted amount
type FooterRow struct {
	Label  string
	Amount string
	Style  Style
}

// Table is the two-column ticket table with its footer
type Table struct {
	Columns [2]string
	Rows    []Row
	Footer  []FooterRow
}

// Document is the complete, renderer-independent content of an invoice.
// Blocks are laid out top to bottom: Header, Headings, Table.
type Document struct {
	Title    string
	Author   string
	Date     time.Time // creation date written into the file metadata
	Header   Header
	Headings []Heading
	Table    Table
}

// AddRow appends a ticket position to the table
func (d *Document) AddRow(title, price string) {
	d.Table.Rows = append(d.Table.Rows, Row{Title: title, Price: price})
}

// Renderer serializes a Document into a paginated file format.
type Renderer interface {
	// Render writes doc to w and returns the number of pages produced.
	// w is not closed.
	Render(doc *Document, w io.Writer) (int, error)
}
