// Package registry maps opaque integer handles to Go values for callers on
// the far side of the flat boundary, which can hold neither Go pointers nor
// Go types.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

// Handle is an opaque reference. The zero Handle is never issued and stands
// for a null pointer.
type Handle uint64

// Kind is the entity type a handle refers to.
type Kind uint8

const (
	KindContext Kind = iota + 1
	KindKeyPair
	KindPublicKey
	KindPrivateKey
	KindPlaintext
	KindCiphertext
)

func (k Kind) String() string {
	switch k {
	case KindContext:
		return "context"
	case KindKeyPair:
		return "key pair"
	case KindPublicKey:
		return "public key"
	case KindPrivateKey:
		return "private key"
	case KindPlaintext:
		return "plaintext"
	case KindCiphertext:
		return "ciphertext"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

var (
	ErrUnknownHandle = errors.New("registry: unknown handle")
	ErrKindMismatch  = errors.New("registry: handle kind mismatch")
)

// base keeps issued handles away from small integers a caller might pass by
// mistake.
const base Handle = 0x1000

// Entry is what a handle resolves to. Owned is false for views that borrow
// material from another entry.
type Entry struct {
	Kind  Kind
	Owned bool
	Value any
}

// Table is safe for concurrent use. Handles increase monotonically and are
// never reused, so a stale handle resolves to ErrUnknownHandle rather than to
// another object.
type Table struct {
	mu      sync.Mutex
	next    Handle
	entries map[Handle]Entry
}

func New() *Table {
	return &Table{next: base, entries: map[Handle]Entry{}}
}

func (t *Table) Put(kind Kind, owned bool, v any) Handle {
	t.mu.Lock()
	h := t.next
	t.next++
	t.entries[h] = Entry{Kind: kind, Owned: owned, Value: v}
	t.mu.Unlock()
	return h
}

// Get returns the value behind h, which must be of the given kind.
func (t *Table) Get(h Handle, kind Kind) (any, error) {
	t.mu.Lock()
	e, ok := t.entries[h]
	t.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %#x", ErrUnknownHandle, uint64(h))
	}
	if e.Kind != kind {
		return nil, fmt.Errorf("%w: %#x is a %s, want %s", ErrKindMismatch, uint64(h), e.Kind, kind)
	}
	return e.Value, nil
}

// Release removes h and returns its entry. Releasing an unknown handle
// reports false and changes nothing.
func (t *Table) Release(h Handle) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[h]
	if ok {
		delete(t.entries, h)
	}
	return e, ok
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Lookup is Get with the value asserted to T.
func Lookup[T any](t *Table, h Handle, kind Kind) (T, error) {
	var zero T
	v, err := t.Get(h, kind)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %#x holds %T", ErrKindMismatch, uint64(h), v)
	}
	return out, nil
}
