package sheets

import (
	"time"

	"piksel-orders/pkg/models"
)

// exportColumns is the number of spreadsheet columns one order occupies.
const exportColumns = 10

// Headers is the header row of an export sheet.
var Headers = []interface{}{
	"Užsakymo nr.",
	"Klientas",
	"Agentūra",
	"Nuo",
	"Iki",
	"Kaina",
	"Statusas",
	"Gauta medžiaga",
	"Sąskaita išsiųsta",
	"Atnaujinta",
}

// ExportRows converts orders to spreadsheet rows and appends one summary row:
// the total price of approved orders whose start date falls in now's calendar
// month.
func ExportRows(orders []models.Order, now time.Time) [][]interface{} {
	rows := make([][]interface{}, 0, len(orders)+1)
	for _, o := range orders {
		rows = append(rows, []interface{}{
			o.InvoiceID,
			o.Client,
			o.Agency,
			o.From,
			o.To,
			o.FinalPrice,
			statusLabel(o.Approved),
			yesNoLabel(o.MediaReceived),
			yesNoLabel(o.InvoiceSent),
			o.Updated,
		})
	}

	summary := make([]interface{}, exportColumns)
	for i := range summary {
		summary[i] = ""
	}
	summary[0] = "Patvirtinta šį mėnesį"
	summary[5] = approvedThisMonth(orders, now)
	rows = append(rows, summary)

	return rows
}

// approvedThisMonth sums the prices of approved orders starting in now's
// calendar month. Orders whose start date does not parse are skipped.
func approvedThisMonth(orders []models.Order, now time.Time) float64 {
	var sum float64
	for _, o := range orders {
		if !o.Approved {
			continue
		}
		from, err := time.Parse("2006-01-02", o.From)
		if err != nil {
			continue
		}
		if from.Year() == now.Year() && from.Month() == now.Month() {
			sum += o.FinalPrice
		}
	}
	return sum
}

func statusLabel(approved bool) string {
	if approved {
		return "Patvirtinta"
	}
	return "Nepatvirtinta"
}

func yesNoLabel(v bool) string {
	if v {
		return "Taip"
	}
	return "Ne"
}
