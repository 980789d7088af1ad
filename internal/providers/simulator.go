package providers

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSimulatedFailure is returned when a call is picked to fail.
	ErrSimulatedFailure = errors.New("provider error (simulated)")
	// ErrUnknownBooking is returned when cancelling a confirmation the vendor never issued.
	ErrUnknownBooking = errors.New("unknown confirmation id")
	// ErrUnknownTransaction is returned when refunding a transaction the vendor never issued.
	ErrUnknownTransaction = errors.New("unknown transaction id")
	// ErrAlreadyRefunded is returned when refunding the same transaction twice.
	ErrAlreadyRefunded = errors.New("transaction already refunded")
)

// SimConfig controls how a simulated vendor behaves.
type SimConfig struct {
	AvgLatency time.Duration
	FailRate   float64
	Seed       int64
}

// simulator injects latency and failures into vendor calls.
// rand.Rand is not safe for concurrent use, so every draw holds mu.
type simulator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	avgLatency time.Duration
	failRate   float64
}

func newSimulator(cfg SimConfig, offset int64) *simulator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &simulator{
		rng:        rand.New(rand.NewSource(seed + offset)),
		avgLatency: cfg.AvgLatency,
		failRate:   cfg.FailRate,
	}
}

// call waits a sampled latency, then decides whether the call fails.
func (s *simulator) call(ctx context.Context) error {
	if d := s.sampleLatency(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	if s.shouldFail() {
		return ErrSimulatedFailure
	}
	return nil
}

func (s *simulator) sampleLatency() time.Duration {
	if s.avgLatency <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.rng.ExpFloat64() * float64(s.avgLatency))
}

func (s *simulator) shouldFail() bool {
	if s.failRate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.failRate
}

func (s *simulator) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// newID builds a vendor-prefixed identifier such as "TK-3F9A1C2E".
func newID(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + id[:10]
}
