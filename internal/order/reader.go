package order

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"ticketinvoice/internal/logger"
	"ticketinvoice/pkg/models"
)

// ErrNoTickets is returned by ReadFile when the file parses but contains no
// tickets key at all. An explicit empty list is a valid, empty order.
var ErrNoTickets = errors.New("order file has no tickets key")

// fileOrder is the on-disk layout of an order file:
//
//	tickets:
//	  - title: THE ROLLING STONES - SIXTY Sektor A (Sitzplatz)
//	    price: 39.95
//
// JSON files with the same shape are accepted since JSON is valid YAML.
type fileOrder struct {
	Tickets *[]fileTicket `yaml:"tickets"`
}

type fileTicket struct {
	Title string `yaml:"title"`
	// Price is decoded as a string so numbers keep their exact decimal digits.
	Price string `yaml:"price"`
}

// Reader loads orders from YAML or JSON files
type Reader struct {
	log zerolog.Logger
}

// NewReader creates an order file reader
func NewReader() *Reader {
	return &Reader{
		log: logger.WithComponent("order-reader"),
	}
}

// ReadFile parses the order stored at path
func (r *Reader) ReadFile(path string) (models.Order, error) {
	const op = "ReadFile"

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := Parse(data)
	if err != nil {
		return models.Order{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	r.log.Info().
		Str("file", path).
		Int("tickets", order.Len()).
		Msg("Order file read successfully")

	return order, nil
}

// Parse decodes an order document
func Parse(data []byte) (models.Order, error) {
	var raw fileOrder
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return models.Order{}, err
	}
	if raw.Tickets == nil {
		return models.Order{}, ErrNoTickets
	}

	tickets := make([]models.Ticket, 0, len(*raw.Tickets))
	for i, t := range *raw.Tickets {
		price, err := decimal.NewFromString(t.Price)
		if err != nil {
			return models.Order{}, fmt.Errorf("ticket %d (%q): invalid price %q: %w", i+1, t.Title, t.Price, err)
		}
		tickets = append(tickets, models.NewTicket(t.Title, price))
	}

	return models.NewOrder(tickets...), nil
}
