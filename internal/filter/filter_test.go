package filter_test

import (
	"strings"
	"testing"

	"piksel-orders/internal/filter"
	"piksel-orders/pkg/models"
)

func TestBuildEmpty(t *testing.T) {
	got := filter.Build("", models.FilterState{}, filter.MatchSubstring)
	if got != "" {
		t.Errorf("Build with no active filters = %q, want empty string", got)
	}
}

func TestBuildSearch(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   string
	}{
		{
			name:   "plain search",
			search: "Maxima",
			want:   `(client~"Maxima" || agency~"Maxima" || invoice_id~"Maxima")`,
		},
		{
			name:   "viaduct shorthand",
			search: "viador",
			want:   `(client~"viador" || agency~"viador" || invoice_id~"viador" || viaduct=true)`,
		},
		{
			name:   "viaduct shorthand is case-insensitive",
			search: "Viadukai",
			want:   `(client~"Viadukai" || agency~"Viadukai" || invoice_id~"Viadukai" || viaduct=true)`,
		},
		{
			name:   "whitespace-only search is ignored",
			search: "   ",
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Build(tt.search, models.FilterState{}, filter.MatchSubstring)
			if got != tt.want {
				t.Errorf("Build(%q) = %q, want %q", tt.search, got, tt.want)
			}
		})
	}
}

func TestBuildStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{models.StatusApproved, "approved=true"},
		{models.StatusUnapproved, "approved=false"},
		{models.StatusReserved, ""},
		{models.StatusCancelled, ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := filter.Build("", models.FilterState{Status: tt.status}, filter.MatchSubstring)
		if got != tt.want {
			t.Errorf("Build(status=%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestBuildMonthYearOverlap(t *testing.T) {
	f := models.FilterState{Month: "03", Year: "2025"}
	got := filter.Build("", f, filter.MatchSubstring)
	want := `(from<="2025-03-31" && to>="2025-03-01")`
	if got != want {
		t.Errorf("Build(month=03, year=2025) = %q, want %q", got, want)
	}
}

func TestBuildSingleDigitMonthIsPadded(t *testing.T) {
	f := models.FilterState{Month: "3", Year: "2025"}
	got := filter.Build("", f, filter.MatchSubstring)
	want := `(from<="2025-03-31" && to>="2025-03-01")`
	if got != want {
		t.Errorf("Build(month=3, year=2025) = %q, want %q", got, want)
	}
}

func TestBuildYearOnly(t *testing.T) {
	f := models.FilterState{Year: "2024"}
	got := filter.Build("", f, filter.MatchSubstring)
	if got != `from~"2024"` {
		t.Errorf("Build(year only) = %q, want %q", got, `from~"2024"`)
	}
}

func TestBuildClientAgencyModes(t *testing.T) {
	f := models.FilterState{Client: "Maxima", Agency: "Adform"}

	got := filter.Build("", f, filter.MatchSubstring)
	want := `client~"Maxima" && agency~"Adform"`
	if got != want {
		t.Errorf("substring mode = %q, want %q", got, want)
	}

	got = filter.Build("", f, filter.MatchExact)
	want = `client="Maxima" && agency="Adform"`
	if got != want {
		t.Errorf("exact mode = %q, want %q", got, want)
	}
}

func TestBuildMediaReceived(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"true", "media_received=true"},
		{"false", "media_received=false"},
		{"taip", "media_received=true"},
		{"ne", "media_received=false"},
		{"", ""},
	}
	for _, tt := range tests {
		got := filter.Build("", models.FilterState{MediaReceived: tt.value}, filter.MatchSubstring)
		if got != tt.want {
			t.Errorf("Build(media_received=%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestBuildCombinedClauseOrder(t *testing.T) {
	f := models.FilterState{
		Status:        models.StatusApproved,
		Month:         "12",
		Year:          "2024",
		Client:        "LRT",
		MediaReceived: "false",
	}
	got := filter.Build("kampanija", f, filter.MatchSubstring)
	want := `(client~"kampanija" || agency~"kampanija" || invoice_id~"kampanija")` +
		` && approved=true` +
		` && (from<="2024-12-31" && to>="2024-12-01")` +
		` && client~"LRT"` +
		` && media_received=false`
	if got != want {
		t.Errorf("combined =\n%q\nwant\n%q", got, want)
	}
	if n := strings.Count(got, "&&"); n != 5 {
		// 4 clause joins + 1 inside the overlap group
		t.Errorf("expected 5 && combinators, got %d", n)
	}
}

func TestBuildIdempotent(t *testing.T) {
	f := models.FilterState{Status: "taip", Month: "07", Year: "2025", Agency: "Omni"}
	first := filter.Build("viad", f, filter.MatchSubstring)
	second := filter.Build("viad", f, filter.MatchSubstring)
	if first != second {
		t.Errorf("Build is not deterministic: %q vs %q", first, second)
	}
}

func TestSearchExpression(t *testing.T) {
	got := filter.SearchExpression("UAB")
	want := `(client~"UAB" || agency~"UAB" || invoice_id~"UAB")`
	if got != want {
		t.Errorf("SearchExpression = %q, want %q", got, want)
	}
}
