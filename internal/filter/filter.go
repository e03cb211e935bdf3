// Package filter translates the dashboard's search and filter state into the
// boolean filter expression understood by the record API's query endpoint.
//
// The grammar is the record store's filter language: `field = value` for
// equality, `field ~ "literal"` for substring match, `&&`/`||` combinators and
// parenthesized groups. String literals are double-quoted; date fields hold
// ISO "yyyy-MM-dd" strings and compare lexically.
//
// Build is total: every input yields a well-formed expression (possibly the
// empty string, meaning "match all"). It never fails.
package filter

import (
	"fmt"
	"strings"

	"piksel-orders/pkg/models"
)

// MatchMode selects how the client and agency filters compare. The listing
// view wants substring matching, the export wants exact names.
type MatchMode int

const (
	MatchSubstring MatchMode = iota
	MatchExact
)

// Build assembles the conjunction of all active clauses. Clause order is
// fixed for readability only; the clauses are conjunctive, so order carries
// no semantics.
func Build(search string, f models.FilterState, mode MatchMode) string {
	var clauses []string

	// Free-text search over client, agency and order number. Searching for
	// anything starting with "viad" also pulls in viaduct orders, a shorthand
	// the operators rely on.
	if q := strings.TrimSpace(search); q != "" {
		if strings.HasPrefix(strings.ToLower(q), "viad") {
			clauses = append(clauses, fmt.Sprintf(`(client~"%s" || agency~"%s" || invoice_id~"%s" || viaduct=true)`, q, q, q))
		} else {
			clauses = append(clauses, fmt.Sprintf(`(client~"%s" || agency~"%s" || invoice_id~"%s")`, q, q, q))
		}
	}

	// Status maps onto the stored approval flag. The reserved and cancelled
	// form statuses have no stored counterpart and emit nothing.
	switch f.Status {
	case models.StatusApproved:
		clauses = append(clauses, "approved=true")
	case models.StatusUnapproved:
		clauses = append(clauses, "approved=false")
	}

	// Month+year selects every order whose date range overlaps the month:
	// the order starts before the month ends and ends after it starts.
	// TODO: compute the real last day of the month instead of a fixed 31;
	// the record store compares dates lexically, so the out-of-range day
	// still yields a correct overlap window, but it reads wrong.
	if f.Month != "" && f.Year != "" {
		month := f.Month
		if len(month) == 1 {
			month = "0" + month
		}
		startDate := fmt.Sprintf("%s-%s-01", f.Year, month)
		endDate := fmt.Sprintf("%s-%s-31", f.Year, month)
		clauses = append(clauses, fmt.Sprintf(`(from<="%s" && to>="%s")`, endDate, startDate))
	} else if f.Year != "" {
		// Year alone falls back to a substring match on the start date.
		clauses = append(clauses, fmt.Sprintf(`from~"%s"`, f.Year))
	}

	if c := strings.TrimSpace(f.Client); c != "" {
		clauses = append(clauses, fieldMatch("client", c, mode))
	}
	if a := strings.TrimSpace(f.Agency); a != "" {
		clauses = append(clauses, fieldMatch("agency", a, mode))
	}

	// Media-received is tri-state; both the raw boolean strings and the
	// Lithuanian form values are accepted.
	switch f.MediaReceived {
	case "true", models.StatusApproved:
		clauses = append(clauses, "media_received=true")
	case "false", models.StatusUnapproved:
		clauses = append(clauses, "media_received=false")
	}

	if len(clauses) == 0 {
		return ""
	}
	return strings.Join(clauses, " && ")
}

// SearchExpression is the fixed disjunction used by the quick-search endpoint.
func SearchExpression(query string) string {
	return fmt.Sprintf(`(client~"%s" || agency~"%s" || invoice_id~"%s")`, query, query, query)
}

func fieldMatch(field, value string, mode MatchMode) string {
	if mode == MatchExact {
		return fmt.Sprintf(`%s="%s"`, field, value)
	}
	return fmt.Sprintf(`%s~"%s"`, field, value)
}
