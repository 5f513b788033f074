package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"pricewatch/detector"
	"pricewatch/models"
	"pricewatch/notify"
	"pricewatch/scheduler"
	"pricewatch/store"
	"pricewatch/tracker"
)

type staticFetcher struct {
	pages map[string]string
}

func (f *staticFetcher) Fetch(ctx context.Context, url string) (string, error) {
	content, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no page for %s", url)
	}
	return content, nil
}

type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, name string) (*models.Observation, error) {
	return nil, fmt.Errorf("%w: connect timeout", store.ErrUnavailable)
}

func (brokenStore) Put(ctx context.Context, name string, obs models.Observation) error {
	return fmt.Errorf("%w: connect timeout", store.ErrUnavailable)
}

func testRetailers() []models.Retailer {
	return []models.Retailer{
		{Name: "acme", URL: "https://acme.example/widget"},
		{Name: "bigbox", URL: "https://bigbox.example/widget"},
	}
}

func newTestRouter(st store.ObservationStore, fetcher *staticFetcher) *mux.Router {
	retailers := testRetailers()
	trk := tracker.New(fetcher, nil, st, detector.New(models.RealertAlways), 0)
	checker := scheduler.NewChecker(trk, notify.NewLog(), retailers)
	h := NewHandlers(retailers, st, checker)

	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods("GET")
	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/retailers", h.GetRetailers).Methods("GET")
	apiV1.HandleFunc("/retailers/{name}", h.GetRetailer).Methods("GET")
	apiV1.HandleFunc("/check", h.CheckNow).Methods("POST")
	return r
}

func seedPrice(t *testing.T, st store.ObservationStore, name, price string) {
	t.Helper()
	obs := models.Observation{
		RetailerName: name,
		LastPrice:    decimal.NewNullDecimal(decimal.RequireFromString(price)),
	}
	if err := st.Put(context.Background(), name, obs); err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
}

func TestGetRetailers(t *testing.T) {
	st := store.NewMemory()
	seedPrice(t, st, "acme", "1199.00")
	router := newTestRouter(st, &staticFetcher{})

	req := httptest.NewRequest("GET", "/api/v1/retailers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var statuses []struct {
		Retailer    models.Retailer     `json:"retailer"`
		Observation *models.Observation `json:"observation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &statuses); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2", len(statuses))
	}
	if statuses[0].Retailer.Name != "acme" || statuses[0].Observation == nil {
		t.Errorf("acme status = %+v", statuses[0])
	}
	if !statuses[0].Observation.LastPrice.Decimal.Equal(decimal.RequireFromString("1199.00")) {
		t.Errorf("acme LastPrice = %v", statuses[0].Observation.LastPrice)
	}
	if statuses[1].Retailer.Name != "bigbox" || statuses[1].Observation != nil {
		t.Errorf("bigbox status = %+v", statuses[1])
	}
}

func TestGetRetailer(t *testing.T) {
	st := store.NewMemory()
	seedPrice(t, st, "acme", "999.00")
	router := newTestRouter(st, &staticFetcher{})

	req := httptest.NewRequest("GET", "/api/v1/retailers/acme", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var status struct {
		Retailer    models.Retailer     `json:"retailer"`
		Observation *models.Observation `json:"observation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Retailer.Name != "acme" || status.Observation == nil {
		t.Fatalf("status = %+v", status)
	}
}

func TestGetRetailerNotFound(t *testing.T) {
	router := newTestRouter(store.NewMemory(), &staticFetcher{})

	req := httptest.NewRequest("GET", "/api/v1/retailers/nobody", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCheckNow(t *testing.T) {
	st := store.NewMemory()
	seedPrice(t, st, "acme", "1199.00")
	seedPrice(t, st, "bigbox", "899.00")
	fetcher := &staticFetcher{pages: map[string]string{
		"https://acme.example/widget":   `<div class="price">$1,099.00</div>`,
		"https://bigbox.example/widget": `<div class="price">$899.00</div>`,
	}}
	router := newTestRouter(st, fetcher)

	req := httptest.NewRequest("POST", "/api/v1/check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Events []models.NotificationEvent `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("got %d events, want 1: %s", len(resp.Events), rec.Body)
	}
	if resp.Events[0].RetailerName != "acme" || resp.Events[0].Reason != models.PriceChanged {
		t.Errorf("event = %+v", resp.Events[0])
	}
}

func TestCheckNowNoEventsReturnsEmptyList(t *testing.T) {
	fetcher := &staticFetcher{pages: map[string]string{
		"https://acme.example/widget":   `<div class="price">$1,099.00</div>`,
		"https://bigbox.example/widget": `<div class="price">$899.00</div>`,
	}}
	router := newTestRouter(store.NewMemory(), fetcher)

	req := httptest.NewRequest("POST", "/api/v1/check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(resp["events"]) != "[]" {
		t.Errorf("events = %s, want []", resp["events"])
	}
}

func TestCheckNowStoreDown(t *testing.T) {
	fetcher := &staticFetcher{pages: map[string]string{
		"https://acme.example/widget":   `<div class="price">$1,099.00</div>`,
		"https://bigbox.example/widget": `<div class="price">$899.00</div>`,
	}}
	router := newTestRouter(brokenStore{}, fetcher)

	req := httptest.NewRequest("POST", "/api/v1/check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(store.NewMemory(), &staticFetcher{})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
}
