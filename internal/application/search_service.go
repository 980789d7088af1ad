package application

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
)

// ProviderMetrics records per-provider search latency and failures.
type ProviderMetrics interface {
	ObserveSearch(provider string, kind itinerary.Kind, duration time.Duration, err error)
}

// SearchStats summarizes one fan-out search.
type SearchStats struct {
	ProvidersTotal     int           `json:"providers_total"`
	ProvidersSucceeded int           `json:"providers_succeeded"`
	ProvidersFailed    int           `json:"providers_failed"`
	Duration           time.Duration `json:"duration"`
}

// FlightOption is a flight offer paired with the airline that can book it.
type FlightOption struct {
	Provider itinerary.FlightProvider
	Offer    itinerary.FlightOffer
}

// RoomOption is a room offer paired with the hotel that can book it.
type RoomOption struct {
	Provider itinerary.HotelProvider
	Offer    itinerary.RoomOffer
}

// SearchService queries every registered provider in parallel and merges the offers.
type SearchService struct {
	flights []itinerary.FlightProvider
	hotels  []itinerary.HotelProvider
	timeout time.Duration
	metrics ProviderMetrics
	logger  *zap.Logger
}

// NewSearchService creates a new SearchService. metrics may be nil.
func NewSearchService(
	flights []itinerary.FlightProvider,
	hotels []itinerary.HotelProvider,
	timeout time.Duration,
	metrics ProviderMetrics,
	logger *zap.Logger,
) *SearchService {
	return &SearchService{
		flights: flights,
		hotels:  hotels,
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
	}
}

// SearchFlights returns matching flights from all airlines, cheapest first.
func (s *SearchService) SearchFlights(ctx context.Context, criteria itinerary.FlightCriteria) ([]FlightOption, SearchStats, error) {
	if err := criteria.Validate(); err != nil {
		return nil, SearchStats{}, err
	}

	options, stats := fanOut(ctx, s, itinerary.KindFlight, s.flights,
		func(p itinerary.FlightProvider) string { return p.Name() },
		func(ctx context.Context, p itinerary.FlightProvider) ([]FlightOption, error) {
			offers, err := p.SearchFlights(ctx, criteria)
			if err != nil {
				return nil, err
			}
			out := make([]FlightOption, len(offers))
			for i, o := range offers {
				out[i] = FlightOption{Provider: p, Offer: o}
			}
			return out, nil
		},
	)

	slices.SortStableFunc(options, func(a, b FlightOption) int {
		if c := cmp.Compare(a.Offer.Fare, b.Offer.Fare); c != 0 {
			return c
		}
		return cmp.Compare(a.Offer.Airline, b.Offer.Airline)
	})
	return options, stats, nil
}

// SearchRooms returns matching rooms from all hotels, cheapest stay first.
func (s *SearchService) SearchRooms(ctx context.Context, criteria itinerary.RoomCriteria) ([]RoomOption, SearchStats, error) {
	if err := criteria.Validate(); err != nil {
		return nil, SearchStats{}, err
	}

	options, stats := fanOut(ctx, s, itinerary.KindHotel, s.hotels,
		func(p itinerary.HotelProvider) string { return p.Name() },
		func(ctx context.Context, p itinerary.HotelProvider) ([]RoomOption, error) {
			offers, err := p.SearchRooms(ctx, criteria)
			if err != nil {
				return nil, err
			}
			out := make([]RoomOption, 0, len(offers))
			for _, o := range offers {
				if o.Available < criteria.Rooms {
					continue
				}
				out = append(out, RoomOption{Provider: p, Offer: o})
			}
			return out, nil
		},
	)

	slices.SortStableFunc(options, func(a, b RoomOption) int {
		if c := cmp.Compare(a.Offer.Cost(), b.Offer.Cost()); c != 0 {
			return c
		}
		return cmp.Compare(a.Offer.Hotel, b.Offer.Hotel)
	})
	return options, stats, nil
}

// fanOut calls every provider concurrently under the search timeout.
// A provider that errors, times out or panics is counted as failed and skipped.
func fanOut[P any, O any](
	ctx context.Context,
	s *SearchService,
	kind itinerary.Kind,
	providers []P,
	name func(P) string,
	call func(context.Context, P) ([]O, error),
) ([]O, SearchStats) {
	start := time.Now()
	ctx, cancel := withCallTimeout(ctx, s.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make([][]O, len(providers))
		stats   = SearchStats{ProvidersTotal: len(providers)}
	)

	var g errgroup.Group
	for i, p := range providers {
		g.Go(func() (err error) {
			providerName := name(p)
			callStart := time.Now()
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("provider panic: %v", r)
				}
				s.observe(providerName, kind, time.Since(callStart), err)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					stats.ProvidersFailed++
					results[i] = nil
					s.logger.Warn("provider search failed",
						zap.String("provider", providerName),
						zap.String("kind", string(kind)),
						zap.Error(err),
					)
				} else {
					stats.ProvidersSucceeded++
				}
				err = nil
			}()

			offers, err := call(ctx, p)
			if err == nil && ctx.Err() != nil {
				err = ctx.Err()
			}
			if err == nil {
				mu.Lock()
				results[i] = offers
				mu.Unlock()
			}
			return err
		})
	}
	_ = g.Wait()

	var merged []O
	for _, r := range results {
		merged = append(merged, r...)
	}
	stats.Duration = time.Since(start)
	return merged, stats
}

func (s *SearchService) observe(provider string, kind itinerary.Kind, d time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.ObserveSearch(provider, kind, d, err)
	}
}

// ValidateSelection checks a 1-based menu choice against the number of options.
func ValidateSelection(choice, count int) error {
	if choice < 1 || choice > count {
		return domain.NewValidationError(fmt.Sprintf("selection must be between 1 and %d", count))
	}
	return nil
}
