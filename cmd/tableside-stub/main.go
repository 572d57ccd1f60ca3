// cmd/tableside-stub/main.go
//
// A tiny in-memory POS backend for developing the console without the
// real server. It implements just the routes the console consumes:
// order listing, order placement, table clearing, and restaurant
// details. Any bearer token is accepted; an absent one is rejected so
// the console's unauthorized path can be exercised too.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type menuRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type lineItem struct {
	Item     *menuRef `json:"itemId"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
}

type storedOrder struct {
	ID           string     `json:"_id"`
	RestaurantID string     `json:"restaurantId"`
	TableNumber  string     `json:"tableNumber"`
	CreatedAt    time.Time  `json:"createdAt"`
	Items        []lineItem `json:"items"`
	Total        float64    `json:"total"`
}

type placeOrderRequest struct {
	RestaurantID string `json:"restaurantId"`
	TableNumber  string `json:"tableNumber"`
	Items        []struct {
		ItemID   string  `json:"itemId"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
	} `json:"items"`
	Total float64 `json:"total"`
}

type orderStore struct {
	mu     sync.Mutex
	orders []storedOrder
}

func (s *orderStore) list() []storedOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storedOrder(nil), s.orders...)
}

func (s *orderStore) add(o storedOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)
}

func (s *orderStore) clearTable(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.orders[:0]
	removed := 0
	for _, o := range s.orders {
		if o.TableNumber == table {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	s.orders = kept
	return removed
}

type server struct {
	store *orderStore
}

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	seed := flag.Bool("seed", false, "start with a few sample orders")
	flag.Parse()

	srv := &server{store: &orderStore{}}
	if *seed {
		srv.seedOrders()
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(requireBearer)
	api.HandleFunc("/admin/{id}/orders", srv.handleOrders).Methods(http.MethodGet)
	api.HandleFunc("/admin/{id}/details", srv.handleDetails).Methods(http.MethodGet)
	api.HandleFunc("/order", srv.handlePlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/clearTable/{table}", srv.handleClearTable).Methods(http.MethodPost)

	log.Printf("tableside stub backend listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, r))
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "missing bearer token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders := s.store.list()
	if orders == nil {
		orders = []storedOrder{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *server) handleDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, map[string]string{
		"_id":     id,
		"name":    "Stub Tandoor",
		"address": "1 Localhost Lane",
		"phone":   "000-000-0000",
	})
}

func (s *server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid order payload"})
		return
	}
	if req.TableNumber == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "table number is required"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "order has no items"})
		return
	}

	stored := storedOrder{
		ID:           uuid.NewString(),
		RestaurantID: req.RestaurantID,
		TableNumber:  req.TableNumber,
		CreatedAt:    time.Now().UTC(),
		Total:        req.Total,
	}
	for i, item := range req.Items {
		stored.Items = append(stored.Items, lineItem{
			Item:     &menuRef{ID: item.ItemID, Name: fmt.Sprintf("Item %d", i+1)},
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	s.store.add(stored)
	log.Printf("order %s placed for table %s", stored.ID, stored.TableNumber)
	writeJSON(w, http.StatusCreated, stored)
}

func (s *server) handleClearTable(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]
	removed := s.store.clearTable(table)
	if removed == 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "table has no open orders"})
		return
	}
	log.Printf("table %s cleared (%d orders)", table, removed)
	writeJSON(w, http.StatusOK, map[string]string{"message": "table cleared"})
}

func (s *server) seedOrders() {
	now := time.Now().UTC()
	s.store.add(storedOrder{
		ID:          uuid.NewString(),
		TableNumber: "5",
		CreatedAt:   now.Add(-10 * time.Minute),
		Items: []lineItem{
			{Item: &menuRef{ID: "m1", Name: "Masala Dosa"}, Quantity: 2, Price: 120},
			{Item: &menuRef{ID: "m2", Name: "Filter Coffee"}, Quantity: 2, Price: 40},
		},
		Total: 320,
	})
	s.store.add(storedOrder{
		ID:          uuid.NewString(),
		TableNumber: "2",
		CreatedAt:   now.Add(-3 * time.Minute),
		Items: []lineItem{
			{Item: nil, Quantity: 1, Price: 80}, // menu item since deleted
		},
		Total: 80,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
