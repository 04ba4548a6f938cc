package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"train-fare-sim/database"
	"train-fare-sim/models"
)

// SyncService pulls a shared fare-data file from a remote URL into the local
// store.
type SyncService struct {
	store   *database.Store
	client  *http.Client
	timeout time.Duration
}

// NewSyncService creates a remote sync service with the given overall
// timeout per sync.
func NewSyncService(store *database.Store, timeout time.Duration) *SyncService {
	return &SyncService{
		store:   store,
		client:  &http.Client{},
		timeout: timeout,
	}
}

// SyncFromURL fetches a JSON array of tickets and bulk-inserts it. The whole
// operation is bounded by the configured timeout; batches committed before a
// timeout are kept (partial import is an accepted outcome).
func (s *SyncService) SyncFromURL(ctx context.Context, rawURL string) (int, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return 0, fmt.Errorf("invalid sync URL %q", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sync fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("sync fetch failed: upstream status %d", resp.StatusCode)
	}

	var tickets []models.Ticket
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		return 0, fmt.Errorf("sync payload is not a ticket array: %w", err)
	}

	log.Printf("Syncing %d tickets from %s", len(tickets), parsed.Host)
	return s.store.BulkInsertTickets(ctx, tickets)
}
