package mathrender

import (
	"errors"
	"sync"
)

// Diagnostics collects document errors. They are reported, never fatal.
type Diagnostics struct {
	mu   sync.Mutex
	errs []error
}

// Add records err. Nil errors are ignored.
func (d *Diagnostics) Add(err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	d.errs = append(d.errs, err)
	d.mu.Unlock()
}

// Errors returns a copy of the recorded errors in order.
func (d *Diagnostics) Errors() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]error, len(d.errs))
	copy(out, d.errs)
	return out
}

// Len returns the number of recorded errors.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.errs)
}

// Err joins the recorded errors, or returns nil if there are none.
func (d *Diagnostics) Err() error {
	return errors.Join(d.Errors()...)
}
