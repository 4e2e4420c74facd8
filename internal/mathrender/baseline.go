package mathrender

import (
	"fmt"
	"sync"
)

// PixelBaseline caches how many pixels make one ex for the raster engine.
// Once set it is reused for the life of the value; it is not invalidated
// when the configured raster engine changes.
type PixelBaseline struct {
	mu    sync.Mutex
	value float64
	set   bool
	err   error // cached measurement failure
}

// DefaultBaseline is the process-wide baseline used when a Renderer is not
// given its own.
var DefaultBaseline = &PixelBaseline{}

// Ensure returns the cached value, calling measure to compute it the first
// time. measure runs at most once: a failed or non-positive measurement is
// cached too, and every later call returns the same ErrNoBaseline until
// Seed or Reset. The lock is held while measuring.
func (b *PixelBaseline) Ensure(measure func() (float64, error)) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.set {
		return b.value, nil
	}
	if b.err != nil {
		return 0, b.err
	}

	v, err := measure()
	switch {
	case err != nil:
		b.err = fmt.Errorf("%w: %v", ErrNoBaseline, err)
		return 0, b.err
	case v <= 0:
		b.err = fmt.Errorf("%w: measured height %v", ErrNoBaseline, v)
		return 0, b.err
	}

	b.value = v
	b.set = true
	return v, nil
}

// Get returns the cached value and whether it has been set.
func (b *PixelBaseline) Get() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value, b.set
}

// Seed sets the baseline without measuring and clears a cached failure.
// Non-positive values clear it.
func (b *PixelBaseline) Seed(pixelsPerEx float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = nil
	if pixelsPerEx <= 0 {
		b.value, b.set = 0, false
		return
	}
	b.value, b.set = pixelsPerEx, true
}

// Reset forgets the cached value or failure; the next Ensure measures again.
func (b *PixelBaseline) Reset() {
	b.Seed(0)
}
