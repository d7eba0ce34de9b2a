package core

import "sync"

// eventBufferSize bounds the per-connection outbound queue.
const eventBufferSize = 32

// Client is the core-side handle for one live transport connection.
// The transport layer drains Events and watches Done for forced closure.
type Client struct {
	ID     string
	Events chan *Event

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient constructs a client handle with an initialized event queue.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// Close signals the transport layer to tear the connection down. Idempotent.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Done is closed when the connection has been forcibly terminated.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
