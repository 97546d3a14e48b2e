package abi

import (
	"errors"
	"fmt"

	"github.com/coinbase/cb-fhe-go/internal/registry"
	"github.com/coinbase/cb-fhe-go/pkg/fhe"
)

// Handle is an opaque reference to a boundary object. Zero is null.
type Handle = registry.Handle

var handles = registry.New()

// LiveHandles reports how many handles are currently registered.
func LiveHandles() int { return handles.Len() }

func open(kind registry.Kind, owned bool, v any) Handle {
	h := handles.Put(kind, owned, v)
	recorder.Load().HandleOpened(kind.String())
	return h
}

// destroy releases h if it is a live handle of the given kind. Unknown
// handles are ignored. The released value is closed; views close only their
// own wrapper.
func destroy(op string, h Handle, kind registry.Kind) Status {
	if h == 0 {
		return StatusOK
	}
	if _, err := handles.Get(h, kind); err != nil {
		if errors.Is(err, registry.ErrUnknownHandle) {
			return StatusOK
		}
		return fail(op, err)
	}
	e, ok := handles.Release(h)
	if !ok {
		return StatusOK
	}
	recorder.Load().HandleClosed(kind.String())
	// A view borrows its material; only the owning handle frees it.
	if c, ok := e.Value.(interface{ Close() }); ok && e.Owned {
		c.Close()
	}
	return StatusOK
}

type arg struct {
	name string
	null bool
}

func h(name string, v Handle) arg { return arg{name, v == 0} }

func ptr[T any](name string, v *T) arg { return arg{name, v == nil} }

func data(name string, b []byte) arg { return arg{name, b == nil} }

// nulls reports the first null argument.
func nulls(op string, args ...arg) Status {
	for _, a := range args {
		if a.null {
			return null(op, a.name)
		}
	}
	return StatusOK
}

func lookup[T any](op, what string, v Handle, kind registry.Kind) (T, Status) {
	out, err := registry.Lookup[T](handles, v, kind)
	if err != nil {
		return out, fail(op, fmt.Errorf("%s: %w", what, err))
	}
	return out, StatusOK
}

func contextArg(op string, v Handle) (*fhe.Context, Status) {
	return lookup[*fhe.Context](op, "context", v, registry.KindContext)
}

func keyPairArg(op string, v Handle) (*fhe.KeyPair, Status) {
	return lookup[*fhe.KeyPair](op, "key pair", v, registry.KindKeyPair)
}

func publicKeyArg(op string, v Handle) (*fhe.PublicKey, Status) {
	return lookup[*fhe.PublicKey](op, "public key", v, registry.KindPublicKey)
}

func privateKeyArg(op string, v Handle) (*fhe.PrivateKey, Status) {
	return lookup[*fhe.PrivateKey](op, "private key", v, registry.KindPrivateKey)
}

func plaintextArg(op string, v Handle) (*fhe.Plaintext, Status) {
	return lookup[*fhe.Plaintext](op, "plaintext", v, registry.KindPlaintext)
}

func ciphertextArg(op, what string, v Handle) (*fhe.Ciphertext, Status) {
	return lookup[*fhe.Ciphertext](op, what, v, registry.KindCiphertext)
}

func putCiphertext(out *Handle, ct *fhe.Ciphertext) Status {
	*out = open(registry.KindCiphertext, true, ct)
	return StatusOK
}
