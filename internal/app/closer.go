package app

import (
	"sync"

	"service-delivery/internal/logx"
)

// Closer releases the resources opened by providers, last opened first.
type Closer struct {
	mu     sync.Mutex
	logger logx.Logger
	fns    []namedClose
}

type namedClose struct {
	name string
	fn   func() error
}

func newCloser(logger logx.Logger) *Closer {
	return &Closer{logger: logger}
}

// Add registers fn under name.
func (c *Closer) Add(name string, fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, namedClose{name: name, fn: fn})
}

// Close runs every registered function once and logs failures.
func (c *Closer) Close() {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		if err := fns[i].fn(); err != nil {
			c.logger.Error("close error",
				logx.String("resource", fns[i].name),
				logx.Err(err),
			)
		}
	}
}
