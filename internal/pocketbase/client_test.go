package pocketbase_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"piksel-orders/internal/pocketbase"
	"piksel-orders/pkg/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *pocketbase.Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, pocketbase.NewClient(srv.URL, "orders")
}

func TestListSendsQueryParameters(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"page":    r.URL.Query().Get("page"),
			"perPage": r.URL.Query().Get("perPage"),
			"sort":    r.URL.Query().Get("sort"),
			"filter":  r.URL.Query().Get("filter"),
		}
		json.NewEncoder(w).Encode(pocketbase.OrderList{
			Items:      []models.Order{{ID: "r1", Client: "Maxima", FinalPrice: 150}},
			TotalItems: 1,
			TotalPages: 1,
		})
	})

	list, err := client.List(context.Background(), pocketbase.ListParams{
		Page:    2,
		PerPage: 20,
		Sort:    "-updated",
		Filter:  `approved=true`,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if gotPath != "/api/collections/orders/records" {
		t.Errorf("path = %q", gotPath)
	}
	want := map[string]string{"page": "2", "perPage": "20", "sort": "-updated", "filter": "approved=true"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
	if len(list.Items) != 1 || list.Items[0].Client != "Maxima" {
		t.Errorf("unexpected items: %+v", list.Items)
	}
}

func TestListDefaults(t *testing.T) {
	var gotQuery map[string]string
	var filterSent bool
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"page":    r.URL.Query().Get("page"),
			"perPage": r.URL.Query().Get("perPage"),
			"sort":    r.URL.Query().Get("sort"),
		}
		filterSent = r.URL.Query().Has("filter")
		json.NewEncoder(w).Encode(pocketbase.OrderList{})
	})

	if _, err := client.List(context.Background(), pocketbase.ListParams{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotQuery["page"] != "1" || gotQuery["perPage"] != "20" || gotQuery["sort"] != "-updated" {
		t.Errorf("defaults = %v", gotQuery)
	}
	if filterSent {
		t.Error("empty filter must not be sent")
	}
}

func TestListCachesUntilMutation(t *testing.T) {
	var hits int
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			hits++
			json.NewEncoder(w).Encode(pocketbase.OrderList{TotalItems: hits})
		case http.MethodPatch:
			json.NewEncoder(w).Encode(models.Order{ID: "r1"})
		}
	})

	params := pocketbase.ListParams{Filter: `approved=true`}
	if _, err := client.List(context.Background(), params); err != nil {
		t.Fatalf("first List: %v", err)
	}
	if _, err := client.List(context.Background(), params); err != nil {
		t.Fatalf("second List: %v", err)
	}
	if hits != 1 {
		t.Errorf("backend hits = %d, want 1 (second call cached)", hits)
	}

	if _, err := client.Update(context.Background(), "r1", map[string]any{"invoice_sent": true}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := client.List(context.Background(), params); err != nil {
		t.Fatalf("third List: %v", err)
	}
	if hits != 2 {
		t.Errorf("backend hits = %d, want 2 (cache cleared by mutation)", hits)
	}
}

func TestGetNotFound(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":404}`, http.StatusNotFound)
	})

	_, err := client.Get(context.Background(), "nope")
	if !errors.Is(err, pocketbase.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateSendsPartialPatch(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(models.Order{ID: "r1", InvoiceSent: true})
	})

	updated, err := client.Update(context.Background(), "r1", map[string]any{"invoice_sent": true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
	if len(gotBody) != 1 || gotBody["invoice_sent"] != true {
		t.Errorf("body = %v, want only invoice_sent", gotBody)
	}
	if !updated.InvoiceSent {
		t.Error("updated order lost the toggled flag")
	}
}

func TestDelete(t *testing.T) {
	var gotMethod, gotPath string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.Delete(context.Background(), "r9"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/collections/orders/records/r9" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestServerErrorIsWrapped(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.List(context.Background(), pocketbase.ListParams{})
	if !errors.Is(err, pocketbase.ErrRequestFailed) {
		t.Errorf("err = %v, want ErrRequestFailed", err)
	}
	var storeErr *pocketbase.StoreError
	if !errors.As(err, &storeErr) || storeErr.Status != http.StatusInternalServerError {
		t.Errorf("expected StoreError with status 500, got %v", err)
	}
}

func TestQuoteByOrderID(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/collections/quotes/records" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("filter"); got != `order_id="r1"` {
			t.Errorf("filter = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []models.Quote{{ID: "q1", OrderID: "r1", Link: "https://example.com/q1"}},
		})
	})

	quote := client.QuoteByOrderID(context.Background(), "r1")
	if quote == nil || quote.Link != "https://example.com/q1" {
		t.Errorf("quote = %+v", quote)
	}
}

func TestQuoteByOrderIDAbsent(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []models.Quote{}})
	})
	if quote := client.QuoteByOrderID(context.Background(), "r1"); quote != nil {
		t.Errorf("quote = %+v, want nil", quote)
	}
}

func TestSumApprovedCountsOnlyApproved(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("perPage"); got != "200" {
			t.Errorf("perPage = %q, want 200 (capped snapshot)", got)
		}
		json.NewEncoder(w).Encode(pocketbase.OrderList{
			Items: []models.Order{
				{ID: "a", Approved: true, FinalPrice: 100},
				{ID: "b", Approved: false, FinalPrice: 999},
				{ID: "c", Approved: true, FinalPrice: 50.5},
			},
		})
	})

	if got := client.SumApproved(context.Background(), ""); got != 150.5 {
		t.Errorf("SumApproved = %v, want 150.5", got)
	}
}

func TestSumApprovedDegradesToZero(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	if got := client.SumApproved(context.Background(), ""); got != 0 {
		t.Errorf("SumApproved on failure = %v, want 0", got)
	}
}
