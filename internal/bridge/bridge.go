// Package bridge keeps a tree in sync with its host: inbound values replace
// the tree wholesale, completed drags mutate it, and every change is pushed to
// the host's notify function exactly once.
package bridge

import (
	"fmt"
	"log/slog"
	"sync"

	"sortable-cli/internal/ingest"
	"sortable-cli/internal/model"
	"sortable-cli/internal/reorder"
)

// NotifyFunc receives the current tree after every change. deferred is owned by
// the host protocol and passed through untouched.
type NotifyFunc func(tree model.Tree, deferred bool)

type ChangeKind string

const (
	ChangeMount    ChangeKind = "mount"
	ChangeReplace  ChangeKind = "replace"
	ChangeMove     ChangeKind = "move"
	ChangeRejected ChangeKind = "rejected"
)

// Change describes one processed event. Tree is the value after the event.
type Change struct {
	Kind ChangeKind
	Move *reorder.Move
	Err  error
	Tree model.Tree
}

type Option func(*Bridge)

func WithLogger(log *slog.Logger) Option {
	return func(b *Bridge) {
		if log != nil {
			b.log = log
		}
	}
}

func WithDeferred(deferred bool) Option {
	return func(b *Bridge) { b.deferred = deferred }
}

// WithObserver registers fn to see every processed event, including rejected
// moves. It runs after notify.
func WithObserver(fn func(Change)) Option {
	return func(b *Bridge) { b.observer = fn }
}

// Bridge owns the tree. Events are applied one at a time in arrival order;
// notify must not call back into the bridge.
type Bridge struct {
	mu       sync.Mutex
	tree     model.Tree
	notify   NotifyFunc
	deferred bool
	observer func(Change)
	log      *slog.Logger
}

// New mounts initial and notifies the host once with it.
func New(initial model.Tree, notify NotifyFunc, opts ...Option) *Bridge {
	b := configure(notify, opts)
	b.mount(initial)
	return b
}

// Mount is New for hosts that hand over their raw element attributes; the
// initial value is read with ingest.FromAttributes.
func Mount(attrs map[string]string, notify NotifyFunc, opts ...Option) *Bridge {
	b := configure(notify, opts)
	b.mount(ingest.FromAttributes(attrs, b.log))
	return b
}

func configure(notify NotifyFunc, opts []Option) *Bridge {
	b := &Bridge{notify: notify, log: slog.Default()}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Bridge) mount(initial model.Tree) {
	if initial == nil {
		initial = model.Tree{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tree = initial
	b.emit(Change{Kind: ChangeMount, Tree: initial})
}

// Value returns the current tree. Callers must not modify it.
func (b *Bridge) Value() model.Tree {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tree
}

// SetValue replaces the tree with v, without merging, and notifies.
func (b *Bridge) SetValue(v model.Tree) {
	if v == nil {
		v = model.Tree{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tree = v
	b.emit(Change{Kind: ChangeReplace, Tree: v})
}

// HandleDragEnd resolves the event's containers and applies the move.
func (b *Bridge) HandleDragEnd(evt reorder.DragEvent) error {
	mv := evt.Normalize(func(raw string) {
		b.log.Warn("ignoring non-numeric container id", "id", raw)
	})
	return b.ApplyMove(mv)
}

// ApplyMove applies mv. A rejected move leaves the tree as it was and does not
// notify; the rejection is returned.
func (b *Bridge) ApplyMove(mv reorder.Move) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, err := b.safeApply(mv)
	if err != nil {
		b.log.Debug("move rejected", "move", mv.String(), "error", err)
		b.observe(Change{Kind: ChangeRejected, Move: &mv, Err: err, Tree: b.tree})
		return err
	}
	b.tree = next
	b.emit(Change{Kind: ChangeMove, Move: &mv, Tree: next})
	return nil
}

func (b *Bridge) safeApply(mv reorder.Move) (next model.Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("move panicked", "move", mv.String(), "panic", r)
			next, err = b.tree, fmt.Errorf("move %s: %v", mv.String(), r)
		}
	}()
	return reorder.Apply(b.tree, mv)
}

func (b *Bridge) emit(c Change) {
	b.deliver(c)
	b.observe(c)
}

// deliver runs the host callback. The tree is already committed, so a
// panicking host must not unwind the caller holding b.mu.
func (b *Bridge) deliver(c Change) {
	if b.notify == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("notify panicked", "kind", string(c.Kind), "panic", r)
		}
	}()
	b.notify(c.Tree, b.deferred)
}

func (b *Bridge) observe(c Change) {
	if b.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("observer panicked", "kind", string(c.Kind), "panic", r)
		}
	}()
	b.observer(c)
}
