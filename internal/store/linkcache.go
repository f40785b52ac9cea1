package store

import (
	"context"
	"sync"

	"github.com/N1XSS/controle-siscomex-test/internal/adapter"
	"github.com/N1XSS/controle-siscomex-test/internal/domain"
)

// LinkCache is the in-process view of the invoice-key → DUE map. An invoice
// key present in the cache is never probed again for discovery. Writes go
// through the store in batches so a partial run still retains its progress.
type LinkCache struct {
	mu        sync.Mutex
	store     Store
	clock     adapter.Clock
	flushSize int
	links     map[domain.InvoiceKey]domain.DueNumber
	pending   []domain.Link
}

// NewLinkCache hydrates the cache from the persisted links.
func NewLinkCache(ctx context.Context, st Store, clock adapter.Clock, flushSize int) (*LinkCache, error) {
	links, err := st.ListKnownLinks(ctx)
	if err != nil {
		return nil, err
	}
	if flushSize <= 0 {
		flushSize = 50
	}
	return &LinkCache{
		store:     st,
		clock:     clock,
		flushSize: flushSize,
		links:     links,
	}, nil
}

// Contains reports whether the invoice key is already mapped.
func (c *LinkCache) Contains(key domain.InvoiceKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.links[key]
	return ok
}

// Get returns the DUE number mapped to the invoice key.
func (c *LinkCache) Get(key domain.InvoiceKey) (domain.DueNumber, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	number, ok := c.links[key]
	return number, ok
}

// Len returns the number of cached associations.
func (c *LinkCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.links)
}

// Put records an association and flushes to the store once the pending batch
// reaches the flush size.
func (c *LinkCache) Put(ctx context.Context, key domain.InvoiceKey, number domain.DueNumber) error {
	c.mu.Lock()
	if _, ok := c.links[key]; ok {
		c.mu.Unlock()
		return nil
	}
	c.links[key] = number
	c.pending = append(c.pending, domain.Link{
		InvoiceKey: key,
		DueNumber:  number,
		LinkedAt:   c.clock.Now().UTC(),
		Origin:     "SISCOMEX",
	})
	flush := len(c.pending) >= c.flushSize
	c.mu.Unlock()

	if flush {
		return c.Flush(ctx)
	}
	return nil
}

// Flush persists every pending association. Failed batches stay pending.
func (c *LinkCache) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := c.store.UpsertLinks(ctx, batch); err != nil {
		c.mu.Lock()
		c.pending = append(batch, c.pending...)
		c.mu.Unlock()
		return err
	}
	return nil
}
