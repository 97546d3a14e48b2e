package fhe

import (
	"github.com/coinbase/cb-fhe-go/pkg/fhe/internal/backend"
)

type (
	unaryFn  func(be *backend.Context, a *backend.Ciphertext) (*backend.Ciphertext, error)
	binaryFn func(be *backend.Context, a, b *backend.Ciphertext) (*backend.Ciphertext, error)
	plainFn  func(be *backend.Context, a *backend.Ciphertext, p *backend.Plaintext) (*backend.Ciphertext, error)
)

func (c *Context) unary(op string, a *Ciphertext, f unaryFn) (out *Ciphertext, err error) {
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	va, err := a.value(op)
	if err != nil {
		return nil, err
	}
	res, err := f(be, va)
	if err != nil {
		return nil, c.fail(op, err)
	}
	return c.wrapCiphertext(res), nil
}

func (c *Context) binary(op string, a, b *Ciphertext, f binaryFn) (out *Ciphertext, err error) {
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	va, err := a.value(op)
	if err != nil {
		return nil, err
	}
	vb, err := b.value(op)
	if err != nil {
		return nil, err
	}
	res, err := f(be, va, vb)
	if err != nil {
		return nil, c.fail(op, err)
	}
	return c.wrapCiphertext(res), nil
}

func (c *Context) withPlain(op string, a *Ciphertext, p *Plaintext, f plainFn) (out *Ciphertext, err error) {
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	va, err := a.value(op)
	if err != nil {
		return nil, err
	}
	vp, err := p.value(op)
	if err != nil {
		return nil, err
	}
	res, err := f(be, va, vp)
	if err != nil {
		return nil, c.fail(op, err)
	}
	return c.wrapCiphertext(res), nil
}

// assign stores the value of res into a. In-place forms that the engine only
// offers functionally compute a fresh result and move it here.
func assign(a, res *Ciphertext) {
	a.ct.Assign(res.ct)
}

// Add returns a + b. Requires FeatureLeveledSHE.
func (c *Context) Add(a, b *Ciphertext) (*Ciphertext, error) {
	return c.binary("Add", a, b, (*backend.Context).Add)
}

// AddInPlace sets a to a + b.
func (c *Context) AddInPlace(a, b *Ciphertext) error {
	_, err := c.binary("AddInPlace", a, b, func(be *backend.Context, x, y *backend.Ciphertext) (*backend.Ciphertext, error) {
		return x, be.AddInPlace(x, y)
	})
	return err
}

func (c *Context) AddPlaintext(a *Ciphertext, p *Plaintext) (*Ciphertext, error) {
	return c.withPlain("AddPlaintext", a, p, (*backend.Context).AddPlaintext)
}

// Sub returns a - b. Requires FeatureLeveledSHE.
func (c *Context) Sub(a, b *Ciphertext) (*Ciphertext, error) {
	return c.binary("Sub", a, b, (*backend.Context).Sub)
}

// SubInPlace sets a to a - b.
func (c *Context) SubInPlace(a, b *Ciphertext) error {
	_, err := c.binary("SubInPlace", a, b, func(be *backend.Context, x, y *backend.Ciphertext) (*backend.Ciphertext, error) {
		return x, be.SubInPlace(x, y)
	})
	return err
}

func (c *Context) SubPlaintext(a *Ciphertext, p *Plaintext) (*Ciphertext, error) {
	return c.withPlain("SubPlaintext", a, p, (*backend.Context).SubPlaintext)
}

// Mult returns the relinearized product a * b, rescaled while a modulus is
// left to drop. Requires FeatureLeveledSHE and a relinearization key for the
// ciphertexts' key tag.
func (c *Context) Mult(a, b *Ciphertext) (*Ciphertext, error) {
	return c.binary("Mult", a, b, (*backend.Context).Mult)
}

// MultInPlace sets a to a * b.
func (c *Context) MultInPlace(a, b *Ciphertext) error {
	res, err := c.binary("MultInPlace", a, b, (*backend.Context).Mult)
	if err != nil {
		return err
	}
	assign(a, res)
	return nil
}

// MultNoRelin returns the degree-two product a * b.
func (c *Context) MultNoRelin(a, b *Ciphertext) (*Ciphertext, error) {
	return c.binary("MultNoRelin", a, b, (*backend.Context).MultNoRelin)
}

// Relinearize reduces a degree-two ciphertext to degree one. Requires
// FeatureKeySwitch.
func (c *Context) Relinearize(a *Ciphertext) (*Ciphertext, error) {
	return c.unary("Relinearize", a, (*backend.Context).Relinearize)
}

func (c *Context) MultPlaintext(a *Ciphertext, p *Plaintext) (*Ciphertext, error) {
	return c.withPlain("MultPlaintext", a, p, (*backend.Context).MultPlaintext)
}

// MultMany multiplies every ciphertext in cts. Requires FeatureLeveledSHE
// and FeatureAdvancedSHE.
func (c *Context) MultMany(cts []*Ciphertext) (out *Ciphertext, err error) {
	const op = "MultMany"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	if len(cts) == 0 {
		return nil, errorf(op, ErrNullArgument, "no ciphertexts")
	}
	vals := make([]*backend.Ciphertext, len(cts))
	for i, ct := range cts {
		if vals[i], err = ct.value(op); err != nil {
			return nil, err
		}
	}
	res, err := be.MultMany(vals)
	if err != nil {
		return nil, c.fail(op, err)
	}
	return c.wrapCiphertext(res), nil
}

// Negate returns -a. Requires FeatureLeveledSHE.
func (c *Context) Negate(a *Ciphertext) (*Ciphertext, error) {
	return c.unary("Negate", a, (*backend.Context).Negate)
}

func (c *Context) NegateInPlace(a *Ciphertext) error {
	res, err := c.unary("NegateInPlace", a, (*backend.Context).Negate)
	if err != nil {
		return err
	}
	assign(a, res)
	return nil
}

// Rotate shifts the slots of each row left by k; negative k shifts right.
// Requires a rotation key for k unless k is a multiple of the row size.
func (c *Context) Rotate(a *Ciphertext, k int) (*Ciphertext, error) {
	return c.unary("Rotate", a, func(be *backend.Context, x *backend.Ciphertext) (*backend.Ciphertext, error) {
		return be.Rotate(x, k)
	})
}

func (c *Context) RotateInPlace(a *Ciphertext, k int) error {
	res, err := c.Rotate(a, k)
	if err != nil {
		return err
	}
	assign(a, res)
	return nil
}

// Sum adds batch consecutive slots into the first slot of each group.
// Requires FeatureAdvancedSHE and the keys from EvalSumKeyGen.
func (c *Context) Sum(a *Ciphertext, batch int) (*Ciphertext, error) {
	return c.unary("Sum", a, func(be *backend.Context, x *backend.Ciphertext) (*backend.Ciphertext, error) {
		return be.Sum(x, batch)
	})
}

// InnerProduct returns the slot-wise product of a and b summed over batch
// slots.
func (c *Context) InnerProduct(a, b *Ciphertext, batch int) (*Ciphertext, error) {
	return c.binary("InnerProduct", a, b, func(be *backend.Context, x, y *backend.Ciphertext) (*backend.Ciphertext, error) {
		return be.InnerProduct(x, y, batch)
	})
}

// ModReduce drops one modulus. It fails when only one modulus is left.
func (c *Context) ModReduce(a *Ciphertext) (*Ciphertext, error) {
	return c.unary("ModReduce", a, (*backend.Context).ModReduce)
}

func (c *Context) ModReduceInPlace(a *Ciphertext) error {
	res, err := c.unary("ModReduceInPlace", a, (*backend.Context).ModReduce)
	if err != nil {
		return err
	}
	assign(a, res)
	return nil
}
