package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"train-fare-sim/models"
)

func TestSyncFromURL(t *testing.T) {
	ctx := context.Background()
	store := openTransferStore(t)

	payload := []models.Ticket{
		{TrainNumber: "G1", FromStation: "Beijing", ToStation: "Shanghai",
			DepartureTime: "08:00", ArrivalTime: "12:30", Price: 553.5, SeatType: models.SeatSecond},
		{TrainNumber: "D2", FromStation: "Beijing", ToStation: "Nanjing",
			DepartureTime: "09:00", ArrivalTime: "12:00", Price: 309.5, SeatType: models.SeatSecond},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	sync := NewSyncService(store, time.Minute)
	n, err := sync.SyncFromURL(ctx, srv.URL)
	if err != nil {
		t.Fatalf("SyncFromURL: %v", err)
	}
	if n != 2 {
		t.Errorf("synced %d tickets, want 2", n)
	}

	count, err := store.CountTickets(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("store holds %d tickets, want 2", count)
	}
}

func TestSyncFromURLRejectsBadScheme(t *testing.T) {
	sync := NewSyncService(openTransferStore(t), time.Minute)

	for _, u := range []string{"", "ftp://example.com/data.json", "file:///etc/passwd", "./local/data.json"} {
		if _, err := sync.SyncFromURL(context.Background(), u); err == nil {
			t.Errorf("SyncFromURL(%q) accepted, want error", u)
		}
	}
}

func TestSyncFromURLUpstreamFailure(t *testing.T) {
	store := openTransferStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sync := NewSyncService(store, time.Minute)
	if _, err := sync.SyncFromURL(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on upstream 500")
	}

	if n, _ := store.CountTickets(context.Background()); n != 0 {
		t.Errorf("store holds %d tickets after failed sync, want 0", n)
	}
}

func TestSyncFromURLBadPayload(t *testing.T) {
	store := openTransferStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	sync := NewSyncService(store, time.Minute)
	if _, err := sync.SyncFromURL(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on non-array payload")
	}
}
