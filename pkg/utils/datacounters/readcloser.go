package datacounters

import (
	"io"
	"sync"
	"sync/atomic"
)

// ReadCloserCounter counts the body bytes of a response and reports the total once on Close
type ReadCloserCounter struct {
	body    io.ReadCloser
	read    uint64
	onClose func(read uint64)
	once    sync.Once
}

// NewReadCloserCounter wraps body, onClose may be nil
func NewReadCloserCounter(body io.ReadCloser, onClose func(read uint64)) *ReadCloserCounter {
	return &ReadCloserCounter{
		body:    body,
		onClose: onClose,
	}
}

func (c *ReadCloserCounter) Read(buf []byte) (int, error) {
	n, err := c.body.Read(buf)
	atomic.AddUint64(&c.read, uint64(n))
	return n, err
}

// Close closes the body. The total is reported on the first call only.
func (c *ReadCloserCounter) Close() error {
	err := c.body.Close()
	c.once.Do(func() {
		if c.onClose != nil {
			c.onClose(c.Count())
		}
	})
	return err
}

func (c *ReadCloserCounter) Count() uint64 {
	return atomic.LoadUint64(&c.read)
}
