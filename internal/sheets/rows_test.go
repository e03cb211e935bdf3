package sheets

import (
	"testing"
	"time"

	"piksel-orders/pkg/models"
)

func TestExportRowsLayout(t *testing.T) {
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{
			InvoiceID:     "PO-1001",
			Client:        "Maxima",
			Agency:        "OMD",
			From:          "2025-07-01",
			To:            "2025-07-14",
			FinalPrice:    1200,
			Approved:      true,
			MediaReceived: true,
			InvoiceSent:   false,
			Updated:       "2025-07-10 08:00:00",
		},
	}

	rows := ExportRows(orders, now)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want order row + summary row", len(rows))
	}

	want := []interface{}{
		"PO-1001", "Maxima", "OMD", "2025-07-01", "2025-07-14",
		float64(1200), "Patvirtinta", "Taip", "Ne", "2025-07-10 08:00:00",
	}
	got := rows[0]
	if len(got) != len(want) {
		t.Fatalf("columns = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExportRowsSummaryCountsApprovedCurrentMonth(t *testing.T) {
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{Approved: true, From: "2025-07-01", FinalPrice: 100},  // counted
		{Approved: true, From: "2025-07-31", FinalPrice: 50},   // counted
		{Approved: false, From: "2025-07-10", FinalPrice: 999}, // not approved
		{Approved: true, From: "2025-06-30", FinalPrice: 999},  // previous month
		{Approved: true, From: "2024-07-15", FinalPrice: 999},  // previous year
		{Approved: true, From: "not-a-date", FinalPrice: 999},  // unparseable start
	}

	rows := ExportRows(orders, now)
	summary := rows[len(rows)-1]

	if summary[0] != "Patvirtinta šį mėnesį" {
		t.Errorf("summary label = %v", summary[0])
	}
	if summary[5] != float64(150) {
		t.Errorf("summary sum = %v, want 150", summary[5])
	}
}

func TestExportRowsEmptyInputStillHasSummary(t *testing.T) {
	rows := ExportRows(nil, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want just the summary row", len(rows))
	}
	if rows[0][5] != float64(0) {
		t.Errorf("summary sum = %v, want 0", rows[0][5])
	}
}

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "standard URL",
			url:  "https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=0",
			want: "1AbC-dEf_123",
		},
		{
			name: "bare URL",
			url:  "https://docs.google.com/spreadsheets/d/xyz",
			want: "xyz",
		},
		{
			name:    "not a sheets URL",
			url:     "https://example.com/whatever",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractSpreadsheetID(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("id = %q, want %q", got, tt.want)
			}
		})
	}
}
