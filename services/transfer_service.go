package services

import (
	"context"
	"log"
	"sort"
	"sync"

	"train-fare-sim/database"
	"train-fare-sim/models"
)

// TransferOptions bounds a transfer search.
type TransferOptions struct {
	MinWaitMinutes int
	MaxWaitMinutes int
	MaxResults     int
}

// DefaultTransferOptions returns the standard transfer search bounds.
func DefaultTransferOptions() TransferOptions {
	return TransferOptions{
		MinWaitMinutes: 30,
		MaxWaitMinutes: 120,
		MaxResults:     50,
	}
}

// TransferService composes store queries into two-leg itineraries when no
// direct ticket exists.
type TransferService struct {
	store *database.Store
}

// NewTransferService creates a transfer search service
func NewTransferService(store *database.Store) *TransferService {
	return &TransferService{store: store}
}

// FindTransfers searches two-leg itineraries from one origin to one
// destination. Legs connect at a via station on the same calendar day; the
// wait between them must fall inside the configured window. Results are
// sorted by first-leg departure time and truncated to MaxResults.
func (ts *TransferService) FindTransfers(ctx context.Context, from, to string, opts TransferOptions) ([]models.TransferOption, error) {
	if opts.MinWaitMinutes <= 0 {
		opts.MinWaitMinutes = DefaultTransferOptions().MinWaitMinutes
	}
	if opts.MaxWaitMinutes <= 0 {
		opts.MaxWaitMinutes = DefaultTransferOptions().MaxWaitMinutes
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultTransferOptions().MaxResults
	}

	firstLegs, err := ts.store.SearchByDeparture(ctx, from)
	if err != nil {
		return nil, err
	}
	if len(firstLegs) == 0 {
		return nil, nil
	}

	// Candidate via stations: first-leg destinations, excluding both
	// endpoints.
	viaSet := make(map[string]struct{})
	for _, leg := range firstLegs {
		if leg.ToStation != "" && leg.ToStation != to && leg.ToStation != from {
			viaSet[leg.ToStation] = struct{}{}
		}
	}
	if len(viaSet) == 0 {
		return nil, nil
	}

	// Fetch second legs for every via station concurrently. A failed
	// sub-query leaves that station without second legs; it never cancels
	// the siblings.
	secondLegs := make(map[string][]models.Ticket, len(viaSet))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for via := range viaSet {
		wg.Add(1)
		go func(via string) {
			defer wg.Done()
			legs, err := ts.store.SearchTicketsFuzzy(ctx, via, to, 1000)
			if err != nil {
				log.Printf("Second-leg query via %s failed: %v", via, err)
				return
			}
			if len(legs) == 0 {
				return
			}
			mu.Lock()
			secondLegs[via] = legs
			mu.Unlock()
		}(via)
	}
	wg.Wait()

	// Raw candidate cap before sorting; keeps pathological fan-out bounded.
	rawCap := opts.MaxResults * 10

	var results []models.TransferOption
	for _, first := range firstLegs {
		legs := secondLegs[first.ToStation]
		if len(legs) == 0 {
			continue
		}

		for _, second := range legs {
			wait := TimeToMinutes(second.DepartureTime) - TimeToMinutes(first.ArrivalTime)
			if wait < opts.MinWaitMinutes || wait > opts.MaxWaitMinutes {
				continue
			}

			total := TimeToMinutes(second.ArrivalTime) - TimeToMinutes(first.DepartureTime)
			if total < 0 {
				// Would wrap past midnight, unsupported.
				continue
			}

			results = append(results, models.TransferOption{
				ViaStation:   first.ToStation,
				FirstLeg:     first,
				SecondLeg:    second,
				WaitMinutes:  wait,
				TotalMinutes: total,
			})

			if len(results) >= rawCap {
				break
			}
		}
		if len(results) >= rawCap {
			break
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return TimeToMinutes(results[i].FirstLeg.DepartureTime) < TimeToMinutes(results[j].FirstLeg.DepartureTime)
	})

	if len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results, nil
}

// SmartSearch prefers direct tickets: a fuzzy direct query runs first, and
// only an empty result triggers the transfer search.
func (ts *TransferService) SmartSearch(ctx context.Context, from, to string) ([]models.Ticket, []models.TransferOption, error) {
	direct, err := ts.store.SearchTicketsFuzzy(ctx, from, to, 5000)
	if err != nil {
		return nil, nil, err
	}
	if len(direct) > 0 {
		return direct, nil, nil
	}

	transfers, err := ts.FindTransfers(ctx, from, to, DefaultTransferOptions())
	if err != nil {
		return nil, nil, err
	}
	return nil, transfers, nil
}
