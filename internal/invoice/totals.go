package invoice

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ticketinvoice/internal/logger"
	"ticketinvoice/pkg/models"
)

// ComputeTotals sums the gross ticket prices of order and splits the sum
// into net and tax for taxRate (0.10 for 10%). Nothing is rounded here;
// rounding happens once, in Reconcile. An empty order yields zero totals.
func ComputeTotals(order models.Order, taxRate decimal.Decimal) models.Totals {
	gross := decimal.Zero
	for _, t := range order.Tickets() {
		gross = gross.Add(t.Price())
	}

	net := gross.Div(decimal.NewFromInt(1).Add(taxRate))

	return models.Totals{
		Net:   net,
		Tax:   gross.Sub(net),
		Gross: gross,
	}
}

// TotalsReconciler rounds computed totals for display
type TotalsReconciler struct {
	log zerolog.Logger
}

// NewTotalsReconciler creates a reconciler logging under its own component
func NewTotalsReconciler() *TotalsReconciler {
	return &TotalsReconciler{
		log: logger.WithComponent("totals"),
	}
}

// Reconcile rounds net, tax and gross to cents independently. If the rounded
// net and tax do not add up to the rounded gross, gross is authoritative and
// the tax is recomputed as gross - net.
func (r *TotalsReconciler) Reconcile(t models.Totals) models.Totals {
	rounded := models.Totals{
		Net:   t.Net.Round(2),
		Tax:   t.Tax.Round(2),
		Gross: t.Gross.Round(2),
	}

	sum := rounded.Net.Add(rounded.Tax)
	if !sum.Equal(rounded.Gross) {
		adjusted := rounded.Gross.Sub(rounded.Net)
		r.log.Warn().
			Str("net", rounded.Net.StringFixed(2)).
			Str("tax", rounded.Tax.StringFixed(2)).
			Str("gross", rounded.Gross.StringFixed(2)).
			Str("adjusted_tax", adjusted.StringFixed(2)).
			Msg("Rounded net and tax do not add up to gross, adjusting tax")
		rounded.Tax = adjusted
	}

	return rounded
}
