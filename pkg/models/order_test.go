package models

import (
	"testing"
	"time"
)

func TestToOrderFoldsStatus(t *testing.T) {
	tests := []struct {
		status       string
		wantApproved bool
	}{
		{StatusApproved, true},
		{StatusUnapproved, false},
		{StatusReserved, false},
		{StatusCancelled, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			o := OrderForm{Status: tt.status}.ToOrder()
			if o.Approved != tt.wantApproved {
				t.Errorf("approved = %v, want %v", o.Approved, tt.wantApproved)
			}
		})
	}
}

func TestMediaAlert(t *testing.T) {
	now := time.Date(2025, 7, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{
			name:  "starts in two days",
			order: Order{Approved: true, From: "2025-07-12"},
			want:  true,
		},
		{
			name:  "starts today",
			order: Order{Approved: true, From: "2025-07-10"},
			want:  true,
		},
		{
			name:  "already started",
			order: Order{Approved: true, From: "2025-07-01"},
			want:  true,
		},
		{
			name:  "starts in three days",
			order: Order{Approved: true, From: "2025-07-13"},
			want:  false,
		},
		{
			name:  "media already received",
			order: Order{Approved: true, MediaReceived: true, From: "2025-07-10"},
			want:  false,
		},
		{
			name:  "not approved",
			order: Order{Approved: false, From: "2025-07-10"},
			want:  false,
		},
		{
			name:  "unparseable start",
			order: Order{Approved: true, From: "soon"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.MediaAlert(now); got != tt.want {
				t.Errorf("MediaAlert() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPrintscreen(t *testing.T) {
	tests := []struct {
		fileType string
		want     bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"application/pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		f := FileAttachment{FileType: tt.fileType}
		if got := f.IsPrintscreen(); got != tt.want {
			t.Errorf("IsPrintscreen(%q) = %v, want %v", tt.fileType, got, tt.want)
		}
	}
}
