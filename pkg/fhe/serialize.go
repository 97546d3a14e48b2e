package fhe

import (
	"context"

	"github.com/coinbase/cb-fhe-go/pkg/fhe/internal/backend"
)

// Format selects the wire encoding. Data must be read back with the format
// it was written in.
type Format uint8

const (
	FormatBinary = Format(backend.FormatBinary)
	FormatJSON   = Format(backend.FormatJSON)
)

func (f Format) String() string { return backend.Format(f).String() }

func (f Format) backend() backend.Format { return backend.Format(f) }

// SerializeContext encodes the parameters and enabled features of c.
// Evaluation keys are serialized separately.
func SerializeContext(c *Context, f Format) (data []byte, err error) {
	const op = "SerializeContext"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	data, err = backend.SerializeContext(be, f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return data, nil
}

// DeserializeContext rebuilds a context. It holds no evaluation keys until
// they are installed with DeserializeEvalMultKeys and
// DeserializeEvalAutomorphismKeys.
func DeserializeContext(data []byte, f Format, opts ...Option) (c *Context, err error) {
	const op = "DeserializeContext"
	defer guard(op, &err)
	if data == nil {
		return nil, errorf(op, ErrNullArgument, "data is nil")
	}
	be, err := backend.DeserializeContext(data, f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	c = wrapContext(be, opts)
	c.logger.Info(context.Background(), "context restored", "ring_dim", be.RingDim(), "features", c.Features().String())
	return c, nil
}

func SerializePublicKey(pk *PublicKey, f Format) (data []byte, err error) {
	const op = "SerializePublicKey"
	defer guard(op, &err)
	key, err := pk.material(op)
	if err != nil {
		return nil, err
	}
	data, err = backend.SerializePublicKey(key, f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return data, nil
}

// DeserializePublicKey returns an owned public key.
func DeserializePublicKey(data []byte, f Format) (pk *PublicKey, err error) {
	const op = "DeserializePublicKey"
	defer guard(op, &err)
	if data == nil {
		return nil, errorf(op, ErrNullArgument, "data is nil")
	}
	key, err := backend.DeserializePublicKey(data, f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return ownedPublicKey(key), nil
}

// SerializePrivateKey encodes the secret key in the clear. Callers should
// ZeroizeBytes the result once it has been stored.
func SerializePrivateKey(sk *PrivateKey, f Format) (data []byte, err error) {
	const op = "SerializePrivateKey"
	defer guard(op, &err)
	key, err := sk.material(op)
	if err != nil {
		return nil, err
	}
	data, err = backend.SerializeSecretKey(key, f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return data, nil
}

// DeserializePrivateKey returns an owned private key.
func DeserializePrivateKey(data []byte, f Format) (sk *PrivateKey, err error) {
	const op = "DeserializePrivateKey"
	defer guard(op, &err)
	if data == nil {
		return nil, errorf(op, ErrNullArgument, "data is nil")
	}
	key, err := backend.DeserializeSecretKey(data, f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return ownedPrivateKey(key), nil
}

func SerializePlaintext(pt *Plaintext, f Format) (data []byte, err error) {
	const op = "SerializePlaintext"
	defer guard(op, &err)
	p, err := pt.value(op)
	if err != nil {
		return nil, err
	}
	data, err = backend.SerializePlaintext(p, f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return data, nil
}

// DeserializePlaintext decodes a plaintext written under a context with the
// same parameters as c.
func (c *Context) DeserializePlaintext(data []byte, f Format) (pt *Plaintext, err error) {
	const op = "DeserializePlaintext"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errorf(op, ErrNullArgument, "data is nil")
	}
	p, err := be.DeserializePlaintext(data, f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return &Plaintext{p: p}, nil
}

func SerializeCiphertext(ct *Ciphertext, f Format) (data []byte, err error) {
	const op = "SerializeCiphertext"
	defer guard(op, &err)
	v, err := ct.value(op)
	if err != nil {
		return nil, err
	}
	data, err = backend.SerializeCiphertext(v, f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return data, nil
}

// DeserializeCiphertext decodes a ciphertext against c. A payload written
// under other parameters is rejected with ErrSerialization.
func (c *Context) DeserializeCiphertext(data []byte, f Format) (ct *Ciphertext, err error) {
	const op = "DeserializeCiphertext"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errorf(op, ErrNullArgument, "data is nil")
	}
	v, err := be.DeserializeCiphertext(data, f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return c.wrapCiphertext(v), nil
}

// SerializeEvalMultKeys encodes every relinearization key in c. An empty
// store encodes to a valid, empty payload.
func (c *Context) SerializeEvalMultKeys(f Format) (data []byte, err error) {
	const op = "SerializeEvalMultKeys"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	data, err = be.SerializeEvalMultKeys(f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return data, nil
}

// DeserializeEvalMultKeys installs relinearization keys into c and returns
// how many were installed.
func (c *Context) DeserializeEvalMultKeys(data []byte, f Format) (n int, err error) {
	const op = "DeserializeEvalMultKeys"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, errorf(op, ErrNullArgument, "data is nil")
	}
	n, err = be.DeserializeEvalMultKeys(data, f.backend())
	if err != nil {
		return 0, wrapErr(op, err)
	}
	c.logger.Info(context.Background(), "relinearization keys installed", "count", n)
	return n, nil
}

// SerializeEvalAutomorphismKeys encodes every rotation key in c.
func (c *Context) SerializeEvalAutomorphismKeys(f Format) (data []byte, err error) {
	const op = "SerializeEvalAutomorphismKeys"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	data, err = be.SerializeEvalAutomorphismKeys(f.backend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return data, nil
}

// DeserializeEvalAutomorphismKeys installs rotation keys into c and returns
// how many were installed.
func (c *Context) DeserializeEvalAutomorphismKeys(data []byte, f Format) (n int, err error) {
	const op = "DeserializeEvalAutomorphismKeys"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, errorf(op, ErrNullArgument, "data is nil")
	}
	n, err = be.DeserializeEvalAutomorphismKeys(data, f.backend())
	if err != nil {
		return 0, wrapErr(op, err)
	}
	c.logger.Info(context.Background(), "rotation keys installed", "count", n)
	return n, nil
}
