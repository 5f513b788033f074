package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"pricewatch/models"
	"pricewatch/scheduler"
	"pricewatch/store"
)

type Handlers struct {
	retailers []models.Retailer
	store     store.ObservationStore
	checker   *scheduler.Checker
}

func NewHandlers(retailers []models.Retailer, st store.ObservationStore, checker *scheduler.Checker) *Handlers {
	return &Handlers{
		retailers: retailers,
		store:     st,
		checker:   checker,
	}
}

// retailerStatus pairs a configured retailer with its stored observation.
type retailerStatus struct {
	Retailer    models.Retailer     `json:"retailer"`
	Observation *models.Observation `json:"observation"`
}

// GetRetailers returns every configured retailer with its last observation.
func (h *Handlers) GetRetailers(w http.ResponseWriter, r *http.Request) {
	statuses := make([]retailerStatus, 0, len(h.retailers))
	for _, rt := range h.retailers {
		obs, err := h.store.Get(r.Context(), rt.Name)
		if err != nil {
			obs = nil // surfaced as a missing observation, not a 500
		}
		statuses = append(statuses, retailerStatus{Retailer: rt, Observation: obs})
	}
	writeJSON(w, http.StatusOK, statuses)
}

// GetRetailer returns one retailer and its observation by name.
func (h *Handlers) GetRetailer(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	for _, rt := range h.retailers {
		if rt.Name != name {
			continue
		}
		obs, err := h.store.Get(r.Context(), rt.Name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load observation")
			return
		}
		writeJSON(w, http.StatusOK, retailerStatus{Retailer: rt, Observation: obs})
		return
	}

	writeError(w, http.StatusNotFound, "Retailer not found")
}

// CheckNow triggers a synchronous price check and returns its events.
func (h *Handlers) CheckNow(w http.ResponseWriter, r *http.Request) {
	events, err := h.checker.RunNow(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Price check failed: "+err.Error())
		return
	}

	if events == nil {
		events = []models.NotificationEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"checked_at": time.Now(),
		"events":     events,
	})
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   "pricewatch",
		"status":    "healthy",
		"timestamp": time.Now(),
		"retailers": len(h.retailers),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
