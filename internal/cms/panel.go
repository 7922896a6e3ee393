package cms

import (
	"context"
	"errors"
)

// Panel holds one admin panel's collection state. Every mutation is
// followed by a full refetch; nothing is patched locally.
type Panel[T any] struct {
	coll *Collection[T]

	Items    []T
	Loading  bool
	Err      string
	NotFound bool
}

// NewPanel creates an empty panel over coll.
func NewPanel[T any](coll *Collection[T]) *Panel[T] {
	return &Panel[T]{coll: coll}
}

// Collection returns the underlying collection.
func (p *Panel[T]) Collection() *Collection[T] {
	return p.coll
}

// Begin marks a request in flight.
func (p *Panel[T]) Begin() {
	p.Loading = true
	p.Err = ""
	p.NotFound = false
}

// Apply records the outcome of a fetch. On error the previous items are
// dropped so the error replaces the panel.
func (p *Panel[T]) Apply(items []T, err error) {
	p.Loading = false
	if err != nil {
		p.Items = nil
		p.Err = Message(err)
		p.NotFound = isNotFound(err)
		return
	}
	p.Items = items
	p.Err = ""
	p.NotFound = false
}

// Load fetches the collection and applies it.
func (p *Panel[T]) Load(ctx context.Context) error {
	p.Begin()
	items, err := p.coll.List(ctx)
	p.Apply(items, err)
	return err
}

// Create submits a new item then refetches.
func (p *Panel[T]) Create(ctx context.Context, f *Form) error {
	return p.mutate(ctx, func() error {
		_, err := p.coll.Create(ctx, f)
		return err
	})
}

// Update replaces an item then refetches.
func (p *Panel[T]) Update(ctx context.Context, id string, f *Form) error {
	return p.mutate(ctx, func() error {
		_, err := p.coll.Update(ctx, id, f)
		return err
	})
}

// Delete removes an item then refetches.
func (p *Panel[T]) Delete(ctx context.Context, id string) error {
	return p.mutate(ctx, func() error {
		return p.coll.Delete(ctx, id)
	})
}

// DeleteAndList deletes then lists without touching panel state, for
// callers that apply the result on another goroutine.
func (p *Panel[T]) DeleteAndList(ctx context.Context, id string) ([]T, error) {
	if err := p.coll.Delete(ctx, id); err != nil {
		return nil, err
	}
	return p.coll.List(ctx)
}

func (p *Panel[T]) mutate(ctx context.Context, op func() error) error {
	p.Begin()
	if err := op(); err != nil {
		p.Loading = false
		p.Err = Message(err)
		p.NotFound = isNotFound(err)
		return err
	}
	return p.Load(ctx)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
