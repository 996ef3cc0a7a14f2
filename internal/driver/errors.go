package driver

import "sync"

// errorCollector accumulates FileErrors from concurrent workers.
type errorCollector struct {
	mu   sync.Mutex
	errs []FileError
}

func (c *errorCollector) add(e FileError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, e)
}

func (c *errorCollector) drain() []FileError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs
}
