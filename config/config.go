// Package config binds a property group to configuration sources. Every
// (re)load builds a fresh default instance, layers all sources on top of it
// in order and publishes the result as an immutable snapshot.
package config

import (
	"context"
	"sync"

	"github.com/go-slark/proptree/archiver"
	"github.com/go-slark/proptree/errors"
	"github.com/go-slark/proptree/logger"
	"github.com/go-slark/proptree/pkg/routine"
	"github.com/go-slark/proptree/property"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type Option func(*options)

type options struct {
	srcs []Source
}

// WithSource appends sources. Later sources override earlier ones.
func WithSource(src ...Source) Option {
	return func(o *options) {
		o.srcs = append(o.srcs, src...)
	}
}

type Config[G any, PG interface {
	*G
	property.Group
}] struct {
	l        sync.RWMutex
	current  PG
	revision string
	changes  []func(PG) // 变动callback
	srcs     []Source
	sf       singleflight.Group
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once
}

func New[G any, PG interface {
	*G
	property.Group
}](opts ...Option) *Config[G, PG] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Config[G, PG]{
		srcs:    o.srcs,
		changes: make([]func(PG), 0),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Load builds a new snapshot from all sources. On failure the previous
// snapshot stays current. Concurrent calls share one reload.
func (c *Config[G, PG]) Load() error {
	_, err, _ := c.sf.Do("load", func() (interface{}, error) {
		return nil, c.load()
	})
	return err
}

func (c *Config[G, PG]) load() error {
	g, err := property.New[G, PG]()
	if err != nil {
		return err
	}
	for _, src := range c.srcs {
		ar := archiver.Get(src.Format())
		if ar == nil {
			return errors.Configuration("unknown source format").WithMeta(errors.MetaArchiver, src.Format())
		}
		data, err := src.Load()
		if err != nil {
			return errors.Wrap(err, "load source")
		}
		if err = property.Load(ar, g, string(data), property.InPlace()); err != nil {
			return err
		}
	}

	rev := uuid.NewString()
	c.l.Lock()
	c.current = g
	c.revision = rev
	changes := make([]func(PG), len(c.changes))
	copy(changes, c.changes)
	c.l.Unlock()

	logger.Log(c.ctx, logger.InfoLevel, logger.Fields(logger.Module("config"), logger.Group(g.Registry().Name()),
		logger.Field{Key: "revision", Value: rev}), "config loaded")
	for _, change := range changes {
		change(g)
	}
	return nil
}

// Watch reloads whenever a source signals a change, until Close.
func (c *Config[G, PG]) Watch() {
	c.once.Do(func() {
		for _, src := range c.srcs {
			src := src
			routine.GoSafe(c.ctx, func() {
				c.watch(src)
			})
		}
	})
}

func (c *Config[G, PG]) watch(src Source) {
	ch := src.Watch()
	for {
		select {
		case <-c.ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if err := c.Load(); err != nil {
				logger.Log(c.ctx, logger.ErrorLevel, logger.Fields(logger.Module("config"), logger.Error(err)), "config reload failed")
			}
		}
	}
}

// OnChange registers fn to run after every successful load with the new
// snapshot.
func (c *Config[G, PG]) OnChange(fn func(PG)) {
	c.l.Lock()
	defer c.l.Unlock()
	c.changes = append(c.changes, fn)
}

// Current returns the latest snapshot, nil before the first Load. Snapshots
// are shared and must not be modified.
func (c *Config[G, PG]) Current() PG {
	c.l.RLock()
	defer c.l.RUnlock()
	return c.current
}

func (c *Config[G, PG]) Revision() string {
	c.l.RLock()
	defer c.l.RUnlock()
	return c.revision
}

// Close stops watching and closes every source.
func (c *Config[G, PG]) Close() error {
	c.cancel()
	var first error
	for _, src := range c.srcs {
		if err := src.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
