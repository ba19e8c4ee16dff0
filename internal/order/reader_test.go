package order_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketinvoice/internal/order"
)

func TestReader_ReadFile(t *testing.T) {
	got, err := order.NewReader().ReadFile(filepath.Join("testdata", "order.yaml"))
	require.NoError(t, err)

	tickets := got.Tickets()
	require.Len(t, tickets, 3)
	assert.Equal(t, "THE ROLLING STONES - SIXTY Sektor A (Sitzplatz)", tickets[0].Title())
	assert.Equal(t, "39.95", tickets[0].Price().String())
	assert.Equal(t, "19.95", tickets[2].Price().String())
}

func TestReader_ReadFileMissing(t *testing.T) {
	_, err := order.NewReader().ReadFile(filepath.Join(t.TempDir(), "order.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReader_ReadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{invalid yaml"), 0o644))

	_, err := order.NewReader().ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing order.yaml")
}

func TestParse_JSON(t *testing.T) {
	got, err := order.Parse([]byte(`{"tickets": [{"title": "Sitzplatz", "price": 1000}, {"title": "Stehplatz", "price": "0.5"}]}`))
	require.NoError(t, err)

	tickets := got.Tickets()
	require.Len(t, tickets, 2)
	assert.Equal(t, "1000", tickets[0].Price().String())
	assert.Equal(t, "0.5", tickets[1].Price().String())
}

func TestParse_EmptyTicketList(t *testing.T) {
	got, err := order.Parse([]byte("tickets: []\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestParse_NoTicketsKey(t *testing.T) {
	_, err := order.Parse([]byte("customer: someone\n"))
	assert.ErrorIs(t, err, order.ErrNoTickets)
}

func TestParse_InvalidPrice(t *testing.T) {
	_, err := order.Parse([]byte("tickets:\n  - title: Sitzplatz\n    price: gratis\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `ticket 1 ("Sitzplatz"): invalid price "gratis"`)
}
