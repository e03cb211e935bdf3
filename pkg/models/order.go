package models

import "time"

// Order is one booked advertising campaign as stored in the record API.
// Dates are kept as the API stores them: ISO "yyyy-MM-dd" strings, comparable
// lexically, occasionally carrying a trailing time component.
type Order struct {
	ID            string  `json:"id"`
	Client        string  `json:"client"`
	Agency        string  `json:"agency"`
	InvoiceID     string  `json:"invoice_id"` // human-readable order number
	Approved      bool    `json:"approved"`
	Viaduct       bool    `json:"viaduct"` // special campaign category (viaduct placements)
	From          string  `json:"from"`    // start date, inclusive
	To            string  `json:"to"`      // end date, inclusive
	MediaReceived bool    `json:"media_received"`
	FinalPrice    float64 `json:"final_price"` // EUR; absent is treated as zero
	InvoiceSent   bool    `json:"invoice_sent"`
	Updated       string  `json:"updated"`
	Intensity     string  `json:"intensity,omitempty"` // e.g. "Kas 6"
}

// MediaAlert reports whether the order needs chasing for campaign media:
// approved, media not yet received, and the start date at most two days away
// (or already passed). Unparseable start dates never alert.
func (o Order) MediaAlert(now time.Time) bool {
	if !o.Approved || o.MediaReceived {
		return false
	}
	from, err := time.Parse("2006-01-02", o.From)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !from.After(today.AddDate(0, 0, 2))
}

// Order statuses offered by the edit form. Only StatusApproved and
// StatusUnapproved map onto the persisted boolean; the other two are
// form-only until the backend schema grows a status field.
const (
	StatusApproved   = "taip"
	StatusUnapproved = "ne"
	StatusReserved   = "rezervuota"
	StatusCancelled  = "atšaukta"
)

// OrderForm is the create/edit payload. Status is the four-valued selector;
// ToOrder folds it down to the stored approval flag.
type OrderForm struct {
	Client        string  `json:"client"`
	Agency        string  `json:"agency"`
	InvoiceID     string  `json:"invoice_id"`
	Status        string  `json:"approved"`
	Viaduct       bool    `json:"viaduct"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	MediaReceived bool    `json:"media_received"`
	FinalPrice    float64 `json:"final_price"`
	InvoiceSent   bool    `json:"invoice_sent"`
	Intensity     string  `json:"intensity,omitempty"`
}

// ToOrder converts the form payload into a persistable Order.
func (f OrderForm) ToOrder() Order {
	return Order{
		Client:        f.Client,
		Agency:        f.Agency,
		InvoiceID:     f.InvoiceID,
		Approved:      f.Status == StatusApproved,
		Viaduct:       f.Viaduct,
		From:          f.From,
		To:            f.To,
		MediaReceived: f.MediaReceived,
		FinalPrice:    f.FinalPrice,
		InvoiceSent:   f.InvoiceSent,
		Intensity:     f.Intensity,
	}
}

// FilterState holds the transient query parameters of the listing view.
// A zero value means "no restriction" for every field; NewFilterState
// seeds the year with the current one, matching the dashboard default.
type FilterState struct {
	Status        string // "", "taip", "ne" ("rezervuota"/"atšaukta" accepted but not filterable)
	Month         string // "01".."12" or ""
	Year          string // "2025" or ""
	Client        string
	Agency        string
	MediaReceived string // tri-state: ""/"true"/"false", "taip"/"ne" also accepted
	InvoiceSent   string // tri-state, carried for the form; not mapped to a clause
}

// Quote links an order to its quote document in the quotes collection.
type Quote struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	Link        string `json:"link,omitempty"`
	ViaductLink string `json:"viaduct_link,omitempty"`
}

// MonthDistribution is one calendar month's share of an order's price.
type MonthDistribution struct {
	Month     int     `json:"month"` // 1..12
	Year      int     `json:"year"`
	MonthName string  `json:"month_name"` // Lithuanian, lowercase
	Days      int     `json:"days"`
	Amount    float64 `json:"amount"`
}
