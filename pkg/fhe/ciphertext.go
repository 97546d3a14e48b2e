package fhe

import (
	"github.com/coinbase/cb-fhe-go/pkg/fhe/internal/backend"
)

// Ciphertext is an encrypted vector. It remembers the context it was
// produced under and the logical length of the encrypted plaintext.
type Ciphertext struct {
	ctx *Context
	ct  *backend.Ciphertext
}

// Level is 0 for a fresh ciphertext and grows by one with every rescale.
func (ct *Ciphertext) Level() (lvl int, err error) {
	const op = "Ciphertext.Level"
	defer guard(op, &err)
	v, err := ct.value(op)
	if err != nil {
		return 0, err
	}
	be, err := ct.ctx.live(op)
	if err != nil {
		return 0, err
	}
	lvl, err = be.Level(v)
	if err != nil {
		return 0, wrapErr(op, err)
	}
	return lvl, nil
}

// Length is the logical length decryption will report, or 0 once closed.
func (ct *Ciphertext) Length() int {
	if ct.closed() {
		return 0
	}
	return ct.ct.Length()
}

// Degree is 1 after relinearization and 2 after MultNoRelin.
func (ct *Ciphertext) Degree() int {
	if ct.closed() {
		return 0
	}
	return ct.ct.Degree()
}

// Tag names the key pair ct was encrypted under.
func (ct *Ciphertext) Tag() string {
	if ct.closed() {
		return ""
	}
	return ct.ct.Tag()
}

// Clone returns an independent deep copy.
func (ct *Ciphertext) Clone() (*Ciphertext, error) {
	v, err := ct.value("Ciphertext.Clone")
	if err != nil {
		return nil, err
	}
	return &Ciphertext{ctx: ct.ctx, ct: v.Clone()}, nil
}

// Close drops the ciphertext. Accessors on a closed Ciphertext return zero
// values and operations taking it report ErrClosed.
func (ct *Ciphertext) Close() {
	if ct != nil {
		ct.ct = nil
	}
}

func (ct *Ciphertext) closed() bool { return ct == nil || ct.ct == nil }

func (ct *Ciphertext) value(op string) (*backend.Ciphertext, error) {
	if ct == nil {
		return nil, errorf(op, ErrNullArgument, "ciphertext is nil")
	}
	if ct.ct == nil {
		return nil, errorf(op, ErrClosed, "ciphertext")
	}
	return ct.ct, nil
}

func (c *Context) wrapCiphertext(ct *backend.Ciphertext) *Ciphertext {
	return &Ciphertext{ctx: c, ct: ct}
}

// Encrypt encrypts pt under pk. Requires FeaturePKE.
func (c *Context) Encrypt(pk *PublicKey, pt *Plaintext) (out *Ciphertext, err error) {
	const op = "Encrypt"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	key, err := pk.material(op)
	if err != nil {
		return nil, err
	}
	p, err := pt.value(op)
	if err != nil {
		return nil, err
	}
	ct, err := be.Encrypt(key, p)
	if err != nil {
		return nil, c.fail(op, err)
	}
	return c.wrapCiphertext(ct), nil
}

// EncryptPrivate encrypts pt directly under sk. Requires FeaturePKE.
func (c *Context) EncryptPrivate(sk *PrivateKey, pt *Plaintext) (out *Ciphertext, err error) {
	const op = "EncryptPrivate"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	key, err := sk.material(op)
	if err != nil {
		return nil, err
	}
	p, err := pt.value(op)
	if err != nil {
		return nil, err
	}
	ct, err := be.EncryptPrivate(key, p)
	if err != nil {
		return nil, c.fail(op, err)
	}
	return c.wrapCiphertext(ct), nil
}

// Decrypt decrypts ct with sk. The plaintext's length is the length of the
// plaintext that was encrypted.
func (c *Context) Decrypt(sk *PrivateKey, ct *Ciphertext) (pt *Plaintext, err error) {
	const op = "Decrypt"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	key, err := sk.material(op)
	if err != nil {
		return nil, err
	}
	v, err := ct.value(op)
	if err != nil {
		return nil, err
	}
	p, err := be.Decrypt(key, v)
	if err != nil {
		return nil, c.fail(op, err)
	}
	return &Plaintext{p: p}, nil
}
