package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"piksel-orders/internal/pocketbase"
	"piksel-orders/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newBackend fakes the record store behind the API under test.
func newBackend(t *testing.T, handler http.HandlerFunc) *gin.Engine {
	t.Helper()
	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)
	return NewRouter(Dependencies{Orders: pocketbase.NewClient(backend.URL, "orders")})
}

func TestListBuildsFilterFromQuery(t *testing.T) {
	var gotFilters []string
	router := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotFilters = append(gotFilters, r.URL.Query().Get("filter"))
		json.NewEncoder(w).Encode(pocketbase.OrderList{
			Items:      []models.Order{{ID: "r1", Client: "Maxima", Approved: true, FinalPrice: 100}},
			TotalItems: 1,
			TotalPages: 1,
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders?status=taip&month=03&year=2025&client=Max", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	want := `approved=true && (from<="2025-03-31" && to>="2025-03-01") && client~"Max"`
	if len(gotFilters) == 0 || gotFilters[0] != want {
		t.Errorf("filter = %q, want %q", gotFilters, want)
	}

	var body struct {
		Items       []json.RawMessage `json:"items"`
		TotalItems  int               `json:"totalItems"`
		ApprovedSum float64           `json:"approvedSum"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.TotalItems != 1 || len(body.Items) != 1 {
		t.Errorf("items = %d, totalItems = %d", len(body.Items), body.TotalItems)
	}
	if body.ApprovedSum != 100 {
		t.Errorf("approvedSum = %v, want 100", body.ApprovedSum)
	}
}

func TestListDegradesToEmptyPage(t *testing.T) {
	router := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want degraded 200", w.Code)
	}
	var body struct {
		Items      []json.RawMessage `json:"items"`
		TotalItems int               `json:"totalItems"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Items) != 0 || body.TotalItems != 0 {
		t.Errorf("degraded page = %+v, want empty", body)
	}
}

func TestGetUnknownOrderIs404(t *testing.T) {
	router := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":404}`, http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCreateRejectsReversedDates(t *testing.T) {
	router := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for an invalid payload")
	})

	body := `{"client":"Maxima","from":"2025-07-10","to":"2025-07-01"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDistribution(t *testing.T) {
	router := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Order{
			ID: "r1", From: "2025-06-05", To: "2025-06-05", FinalPrice: 500,
		})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/r1/distribution", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Items []models.MonthDistribution `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].Amount != 500 || body.Items[0].MonthName != "birželis" {
		t.Errorf("items = %+v", body.Items)
	}
}

func TestWeekGrid(t *testing.T) {
	router := newBackend(t, func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weeks/2024", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Items []models.Week `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Items) < 52 || len(body.Items) > 54 {
		t.Errorf("weeks = %d", len(body.Items))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weeks/notayear", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status for bad year = %d, want 400", w.Code)
	}
}

func TestSortSpec(t *testing.T) {
	tests := []struct {
		field, dir, want string
	}{
		{"", "desc", ""},
		{"updated", "", "updated"},
		{"updated", "asc", "updated"},
		{"updated", "desc", "-updated"},
	}
	for _, tt := range tests {
		if got := sortSpec(tt.field, tt.dir); got != tt.want {
			t.Errorf("sortSpec(%q, %q) = %q, want %q", tt.field, tt.dir, got, tt.want)
		}
	}
}
