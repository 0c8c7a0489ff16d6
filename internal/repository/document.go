package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/storefront/internal/port"
)

// document is a JSON value stored under a single key. The in-memory copy is authoritative once loaded;
// every change is written through wholesale and only committed in memory after the write succeeds.
type document[T any] struct {
	kv    port.KeyValueStore
	key   string
	clone func(T) T

	mu     sync.Mutex
	value  T
	loaded bool
	stored bool
}

func newDocument[T any](kv port.KeyValueStore, key string, clone func(T) T) *document[T] {
	return &document[T]{
		kv:    kv,
		key:   key,
		clone: clone,
	}
}

func (d *document[T]) loadLocked(ctx context.Context) error {
	if d.loaded {
		return nil
	}

	data, err := d.kv.Get(ctx, d.key)
	if errors.Is(err, port.ErrKeyNotFound) {
		d.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("kv.Get: %w", err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("json.Unmarshal[%s]: %w", d.key, err)
	}

	d.value = value
	d.loaded = true
	d.stored = true
	return nil
}

func (d *document[T]) writeLocked(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json.Marshal[%s]: %w", d.key, err)
	}

	if err := d.kv.Set(ctx, d.key, data); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	d.value = value
	d.stored = true
	return nil
}

func (d *document[T]) read(ctx context.Context) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.loadLocked(ctx); err != nil {
		var zero T
		return zero, err
	}

	return d.clone(d.value), nil
}

// update applies fn to a copy of the current value. When fn reports a change the copy is persisted
// and becomes the current value; when fn fails or the write fails the current value is kept.
func (d *document[T]) update(ctx context.Context, fn func(v *T) (bool, error)) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T

	if err := d.loadLocked(ctx); err != nil {
		return zero, err
	}

	next := d.clone(d.value)
	changed, err := fn(&next)
	if err != nil {
		return zero, err
	}
	if !changed {
		return d.clone(d.value), nil
	}

	if err := d.writeLocked(ctx, next); err != nil {
		return zero, err
	}

	return d.clone(next), nil
}

// init writes value only if nothing has ever been stored under the key. It reports whether it wrote.
func (d *document[T]) init(ctx context.Context, value T) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.loadLocked(ctx); err != nil {
		return false, err
	}
	if d.stored {
		return false, nil
	}

	if err := d.writeLocked(ctx, d.clone(value)); err != nil {
		return false, err
	}
	return true, nil
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func cloneSlice[T any](items []T, clone func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}
