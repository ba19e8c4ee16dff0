package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals holds the derived footer amounts of an invoice.
// Gross = Net + Tax and Net = Gross / (1 + rate).
type Totals struct {
	Net   decimal.Decimal // Amount before tax
	Tax   decimal.Decimal // Tax amount
	Gross decimal.Decimal // Total amount (net + tax), what the customer pays
}

type Invoice struct {
	// Core identifiers
	InvoiceNumber string // Human-readable invoice number
	IssueDate     time.Time

	// Parties
	Seller        string   // Seller name printed in the address block
	SellerAddress []string // Remaining address lines, blank lines allowed

	// Amounts (store as cents/smallest currency unit to avoid float issues)
	NetAmount   int64
	VATAmount   int64
	GrossAmount int64
	TaxRate     decimal.Decimal
	Currency    string // Always EUR

	Positions int // Number of printed ticket rows
}
