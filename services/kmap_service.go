package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// KMap resolves a train number to its category tier (K value). The mapping
// is loaded once per session from tabular sources and is read-only
// afterwards. Lookups are safe at any time: before Load, after a failed
// Load, and concurrently with it.
type KMap struct {
	sources []string
	client  *http.Client

	mu       sync.Mutex
	loaded   bool
	inflight chan struct{}
	tiers    map[string]int
}

// NewKMap creates a classifier reading from the given sources, each either a
// local file path or an http(s) URL.
func NewKMap(sources ...string) *KMap {
	return &KMap{
		sources: sources,
		client:  &http.Client{Timeout: 30 * time.Second},
		tiers:   map[string]int{},
	}
}

// Load populates the tier map from all configured sources. It is idempotent,
// and concurrent calls are coalesced into a single in-flight load. A source
// that cannot be read is logged and skipped; the classifier keeps answering
// with the default tier for anything it never learned.
func (k *KMap) Load(ctx context.Context) error {
	k.mu.Lock()
	if k.loaded {
		k.mu.Unlock()
		return nil
	}
	if k.inflight != nil {
		ch := k.inflight
		k.mu.Unlock()
		select {
		case <-ch:
			// Re-enter: a no-op when the load finished, a fresh attempt
			// when the loader was cancelled.
			return k.Load(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	ch := make(chan struct{})
	k.inflight = ch
	k.mu.Unlock()

	merged := map[string]int{}
	for _, source := range k.sources {
		if err := ctx.Err(); err != nil {
			// Leave the map unloaded so a later call can retry.
			k.mu.Lock()
			k.inflight = nil
			k.mu.Unlock()
			close(ch)
			return err
		}

		text, err := k.readSource(ctx, source)
		if err != nil {
			log.Printf("K map source %s not loaded: %v", source, err)
			continue
		}
		parseTierRows(text, merged)
	}

	k.mu.Lock()
	k.tiers = merged
	k.loaded = true
	k.inflight = nil
	k.mu.Unlock()
	close(ch)

	log.Printf("Loaded K values for %d trains", len(merged))
	return nil
}

// KFor returns the tier for a train number, case-insensitively. Unknown
// trains, and any lookup before the map is loaded, resolve to the no-markup
// tier.
func (k *KMap) KFor(trainNumber string) int {
	if trainNumber == "" {
		return DefaultK
	}

	k.mu.Lock()
	tier, ok := k.tiers[strings.ToUpper(trainNumber)]
	k.mu.Unlock()

	if !ok {
		return DefaultK
	}
	return tier
}

// Size returns the number of classified trains.
func (k *KMap) Size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.tiers)
}

func (k *KMap) readSource(ctx context.Context, source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return "", err
		}
		resp, err := k.client.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	body, err := os.ReadFile(source)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// parseTierRows merges "train,tier" rows into dst. Rows whose tier column is
// not an integer in 1..3 are skipped, which also covers a header row.
func parseTierRows(text string, dst map[string]int) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}

		train := strings.TrimSpace(parts[0])
		tier, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if train == "" || err != nil || tier < 1 || tier > 3 {
			continue
		}

		dst[strings.ToUpper(train)] = tier
	}
}
