package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Provider hands out the anonymous shopping session identifier.
// When the store is unavailable it falls back to an identifier that lives
// only as long as the Provider.
type Provider struct {
	store Store
	newID func() string
	log   *slog.Logger

	mu       sync.Mutex
	cached   string
	degraded bool
}

type Option func(*Provider)

func WithIDGenerator(fn func() string) Option {
	return func(p *Provider) { p.newID = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.log = l }
}

func NewProvider(store Store, opts ...Option) *Provider {
	p := &Provider{
		store: store,
		newID: uuid.NewString,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) SessionID(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached
	}

	id, err := p.store.Get(ctx)
	if err == nil && id != "" {
		p.cached = id
		return id
	}
	switch {
	case err == nil, errors.Is(err, ErrNoSession):
	case errors.Is(err, ErrCorrupt):
		// the record is replaced below
		p.log.Warn("session_record_corrupt", "error", err)
	default:
		p.degrade(p.newID(), err)
		return p.cached
	}

	id = p.newID()
	if err := p.store.Set(ctx, id); err != nil {
		p.degrade(id, err)
		return p.cached
	}
	p.cached = id
	return id
}

func (p *Provider) degrade(id string, err error) {
	p.cached = id
	p.degraded = true
	p.log.Warn("session_storage_unavailable", "error", err)
}

// Degraded reports whether the current identifier is not persisted.
func (p *Provider) Degraded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.degraded
}

// Clear forgets the identifier; the next SessionID call starts a new session.
// When the store cannot be cleared the provider switches to a fresh
// identifier that is not persisted.
func (p *Provider) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cached = ""
	p.degraded = false
	if err := p.store.Clear(ctx); err != nil {
		p.degrade(p.newID(), fmt.Errorf("clear session: %w", err))
	}
	return nil
}
