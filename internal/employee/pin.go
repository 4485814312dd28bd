package employee

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/frahmantamala/calong-tick/internal"
)

const (
	PinMin = 100000
	PinMax = 999999

	DefaultMaxPinAttempts = 20
)

// PinChecker reports whether a PIN is already held by any employee,
// active or not.
type PinChecker interface {
	PinExists(ctx context.Context, pin string) (bool, error)
}

type PinOption func(*PinAllocator)

// WithDraw replaces the random source. draw must return a value in
// [PinMin, PinMax].
func WithDraw(draw func() (int, error)) PinOption {
	return func(a *PinAllocator) {
		a.draw = draw
	}
}

// PinAllocator draws uniformly random six digit PINs until one is free.
type PinAllocator struct {
	checker     PinChecker
	maxAttempts int
	draw        func() (int, error)
}

func NewPinAllocator(checker PinChecker, maxAttempts int, opts ...PinOption) *PinAllocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxPinAttempts
	}
	a := &PinAllocator{
		checker:     checker,
		maxAttempts: maxAttempts,
		draw:        randomPin,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *PinAllocator) MaxAttempts() int {
	return a.maxAttempts
}

// Allocate returns a PIN no employee holds at the time of the check. Each
// attempt costs one lookup; after maxAttempts collisions it gives up with
// ErrPinAllocationExhausted.
func (a *PinAllocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := a.draw()
		if err != nil {
			return "", err
		}
		pin := strconv.Itoa(n)

		exists, err := a.checker.PinExists(ctx, pin)
		if err != nil {
			return "", err
		}
		if !exists {
			return pin, nil
		}
	}
	return "", internal.ErrPinAllocationExhausted
}

func randomPin() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(PinMax-PinMin+1))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + PinMin, nil
}
