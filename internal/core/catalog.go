package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
)

// ErrNotLoaded is returned by Catalog.Table before the startup load has
// finished.
var ErrNotLoaded = errors.New("table not loaded")

// Catalog owns the single startup load of the data file and hands the
// resulting table to readers.
//
// The load runs at most once. Until it completes, Table reports
// ErrNotLoaded; afterwards it returns either the table or the load error for
// the rest of the process lifetime. The table is never replaced.
type Catalog struct {
	source string
	opts   LoadOptions

	once sync.Once
	done chan struct{}

	// Written once before done is closed, read-only afterwards.
	table *Table
	info  LoadInfo
	err   error
}

// NewCatalog creates a catalog for source. Nothing is read until Load.
func NewCatalog(source string, opts LoadOptions) *Catalog {
	return &Catalog{
		source: source,
		opts:   opts,
		done:   make(chan struct{}),
	}
}

// NewLoadedCatalog wraps an already built table.
func NewLoadedCatalog(t *Table) *Catalog {
	c := &Catalog{done: make(chan struct{}), table: t}
	if t != nil {
		c.info.Stats = t.Stats()
	}
	c.once.Do(func() { close(c.done) })
	return c
}

// Source returns the configured data file location.
func (c *Catalog) Source() string { return c.source }

// Load performs the startup load. Calls after the first return the first
// call's result without reading again.
func (c *Catalog) Load(ctx context.Context) error {
	c.once.Do(func() {
		defer close(c.done)

		c.table, c.info, c.err = Load(ctx, c.source, c.opts)
		if c.err != nil {
			slog.Error("data file load failed",
				"source", c.source,
				"error", c.err,
				"code", MapError(c.err).Code,
				"duration_ms", c.info.Duration.Milliseconds(),
			)
			return
		}

		slog.Info("data file loaded",
			"source", c.source,
			"size", humanize.Bytes(uint64(c.info.Bytes)),
			"duration_ms", c.info.Duration.Milliseconds(),
			"characters", c.table.Len(),
			"associations", c.info.Stats.Associations,
		)
		for _, w := range c.table.Warnings() {
			slog.Warn("data file warning", "source", c.source, "warning", w)
		}
	})

	<-c.done
	return c.err
}

// Wait blocks until the load has finished or ctx is done.
func (c *Catalog) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether the load has finished, successfully or not.
func (c *Catalog) Ready() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Table returns the loaded table. It returns ErrNotLoaded while the load is
// still running and the load error if it failed.
func (c *Catalog) Table() (*Table, error) {
	if !c.Ready() {
		return nil, ErrNotLoaded
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.table, nil
}

// Info returns details about the completed load.
func (c *Catalog) Info() LoadInfo {
	if !c.Ready() {
		return LoadInfo{Source: c.source}
	}
	return c.info
}
