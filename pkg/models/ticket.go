package models

import "github.com/shopspring/decimal"

// Ticket is one purchased line item. Fields are unexported so a ticket
// cannot change after it has been added to an order.
type Ticket struct {
	title string
	price decimal.Decimal
}

// NewTicket creates a ticket with the given title and gross price
func NewTicket(title string, price decimal.Decimal) Ticket {
	return Ticket{title: title, price: price}
}

// Title returns the ticket title as printed on the invoice
func (t Ticket) Title() string { return t.title }

// Price returns the gross price including tax
func (t Ticket) Price() decimal.Decimal { return t.price }

// Order is an ordered collection of tickets invoiced together
type Order struct {
	tickets []Ticket
}

// NewOrder creates an order holding a private copy of tickets
func NewOrder(tickets ...Ticket) Order {
	owned := make([]Ticket, len(tickets))
	copy(owned, tickets)
	return Order{tickets: owned}
}

// Tickets returns a copy of the order's tickets in insertion order
func (o Order) Tickets() []Ticket {
	out := make([]Ticket, len(o.tickets))
	copy(out, o.tickets)
	return out
}

// Len returns the number of tickets in the order
func (o Order) Len() int { return len(o.tickets) }

// SampleOrder returns the demo order printed when no order file is given
func SampleOrder() Order {
	return NewOrder(
		NewTicket("THE ROLLING STONES - SIXTY Sektor A (Sitzplatz)", decimal.RequireFromString("39.95")),
		NewTicket("THE ROLLING STONES - SIXTY Sektor A (Sitzplatz)", decimal.RequireFromString("39.95")),
		NewTicket("THE ROLLING STONES - SIXTY Sektor B (Stehplatz)", decimal.RequireFromString("19.95")),
	)
}
