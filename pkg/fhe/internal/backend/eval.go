package backend

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

func engineErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrCrypto, op, err)
}

func (c *Context) checkCiphertext(ct *Ciphertext) error {
	return c.checkOwner(ct.ctxID, "ciphertext")
}

func (c *Context) checkPair(a, b *Ciphertext) error {
	if err := c.checkCiphertext(a); err != nil {
		return err
	}
	if err := c.checkCiphertext(b); err != nil {
		return err
	}
	if a.tag != b.tag {
		return fmt.Errorf("%w: ciphertexts were encrypted under different keys", ErrCrypto)
	}
	return nil
}

func (c *Context) requireMultKey(tag string) error {
	if !c.hasMultKey(tag) {
		return fmt.Errorf("%w: no multiplication key for key tag %s", ErrKeyNotFound, tag)
	}
	return nil
}

func (c *Context) wrap(src *Ciphertext, ct *rlwe.Ciphertext, length int) *Ciphertext {
	return &Ciphertext{ct: ct, tag: src.tag, ctxID: c.id, length: length}
}

// rescale drops one modulus from ct when one is left, keeping the noise of
// products in check the way BGV's automatic modulus switching does.
func (c *Context) rescale(eval *bgv.Evaluator, ct *rlwe.Ciphertext) error {
	if ct.Level() == 0 {
		return nil
	}
	if err := eval.Rescale(ct, ct); err != nil {
		return engineErr("rescale", err)
	}
	return nil
}

// Add returns a + b.
func (c *Context) Add(a, b *Ciphertext) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkPair(a, b); err != nil {
		return nil, err
	}
	out, err := c.evaluator(a.tag).AddNew(a.ct, b.ct)
	if err != nil {
		return nil, engineErr("add", err)
	}
	return c.wrap(a, out, max(a.length, b.length)), nil
}

// AddInPlace sets a to a + b.
func (c *Context) AddInPlace(a, b *Ciphertext) error {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return err
	}
	defer c.mu.Unlock()
	if err := c.checkPair(a, b); err != nil {
		return err
	}
	if err := c.evaluator(a.tag).Add(a.ct, b.ct, a.ct); err != nil {
		return engineErr("add", err)
	}
	a.length = max(a.length, b.length)
	return nil
}

// AddPlaintext returns a + p.
func (c *Context) AddPlaintext(a *Ciphertext, p *Plaintext) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkCiphertext(a); err != nil {
		return nil, err
	}
	pt, err := c.encode(p)
	if err != nil {
		return nil, err
	}
	out, err := c.evaluator(a.tag).AddNew(a.ct, pt)
	if err != nil {
		return nil, engineErr("add plaintext", err)
	}
	return c.wrap(a, out, max(a.length, p.length)), nil
}

// Sub returns a - b.
func (c *Context) Sub(a, b *Ciphertext) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkPair(a, b); err != nil {
		return nil, err
	}
	out, err := c.evaluator(a.tag).SubNew(a.ct, b.ct)
	if err != nil {
		return nil, engineErr("sub", err)
	}
	return c.wrap(a, out, max(a.length, b.length)), nil
}

// SubInPlace sets a to a - b.
func (c *Context) SubInPlace(a, b *Ciphertext) error {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return err
	}
	defer c.mu.Unlock()
	if err := c.checkPair(a, b); err != nil {
		return err
	}
	if err := c.evaluator(a.tag).Sub(a.ct, b.ct, a.ct); err != nil {
		return engineErr("sub", err)
	}
	a.length = max(a.length, b.length)
	return nil
}

// SubPlaintext returns a - p.
func (c *Context) SubPlaintext(a *Ciphertext, p *Plaintext) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkCiphertext(a); err != nil {
		return nil, err
	}
	pt, err := c.encode(p)
	if err != nil {
		return nil, err
	}
	out, err := c.evaluator(a.tag).SubNew(a.ct, pt)
	if err != nil {
		return nil, engineErr("sub plaintext", err)
	}
	return c.wrap(a, out, max(a.length, p.length)), nil
}

// Mult returns the relinearized product a * b, rescaled when a modulus is
// left to drop.
func (c *Context) Mult(a, b *Ciphertext) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkPair(a, b); err != nil {
		return nil, err
	}
	return c.mult(a, b)
}

func (c *Context) mult(a, b *Ciphertext) (*Ciphertext, error) {
	if err := c.requireMultKey(a.tag); err != nil {
		return nil, err
	}
	eval := c.evaluator(a.tag)
	out, err := eval.MulRelinNew(a.ct, b.ct)
	if err != nil {
		return nil, engineErr("mult", err)
	}
	if err := c.rescale(eval, out); err != nil {
		return nil, err
	}
	return c.wrap(a, out, max(a.length, b.length)), nil
}

// MultNoRelin returns the degree-two product a * b.
func (c *Context) MultNoRelin(a, b *Ciphertext) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkPair(a, b); err != nil {
		return nil, err
	}
	eval := c.evaluator(a.tag)
	out, err := eval.MulNew(a.ct, b.ct)
	if err != nil {
		return nil, engineErr("mult", err)
	}
	if err := c.rescale(eval, out); err != nil {
		return nil, err
	}
	return c.wrap(a, out, max(a.length, b.length)), nil
}

// Relinearize brings a degree-two ciphertext back to degree one. A linear
// ciphertext is returned as a copy.
func (c *Context) Relinearize(a *Ciphertext) (*Ciphertext, error) {
	if err := c.lock(FeatureKeySwitch); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkCiphertext(a); err != nil {
		return nil, err
	}
	if a.ct.Degree() < 2 {
		return a.Clone(), nil
	}
	if err := c.requireMultKey(a.tag); err != nil {
		return nil, err
	}
	out, err := c.evaluator(a.tag).RelinearizeNew(a.ct)
	if err != nil {
		return nil, engineErr("relinearize", err)
	}
	return c.wrap(a, out, a.length), nil
}

// MultPlaintext returns a * p, rescaled when a modulus is left to drop.
func (c *Context) MultPlaintext(a *Ciphertext, p *Plaintext) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkCiphertext(a); err != nil {
		return nil, err
	}
	pt, err := c.encode(p)
	if err != nil {
		return nil, err
	}
	eval := c.evaluator(a.tag)
	out, err := eval.MulNew(a.ct, pt)
	if err != nil {
		return nil, engineErr("mult plaintext", err)
	}
	if err := c.rescale(eval, out); err != nil {
		return nil, err
	}
	return c.wrap(a, out, max(a.length, p.length)), nil
}

// MultMany multiplies every ciphertext together with a balanced product tree.
// All inputs are checked before the first multiplication.
func (c *Context) MultMany(cts []*Ciphertext) (*Ciphertext, error) {
	if len(cts) == 0 {
		return nil, fmt.Errorf("%w: empty ciphertext list", ErrInvalidParam)
	}
	if err := c.lock(FeatureLeveledSHE | FeatureAdvancedSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkCiphertext(cts[0]); err != nil {
		return nil, err
	}
	for _, ct := range cts[1:] {
		if err := c.checkPair(cts[0], ct); err != nil {
			return nil, err
		}
	}
	if len(cts) == 1 {
		return cts[0].Clone(), nil
	}
	if err := c.requireMultKey(cts[0].tag); err != nil {
		return nil, err
	}

	layer := cts
	for len(layer) > 1 {
		next := make([]*Ciphertext, 0, (len(layer)+1)/2)
		for i := 0; i+1 < len(layer); i += 2 {
			prod, err := c.mult(layer[i], layer[i+1])
			if err != nil {
				return nil, err
			}
			next = append(next, prod)
		}
		if len(layer)%2 == 1 {
			next = append(next, layer[len(layer)-1])
		}
		layer = next
	}
	return layer[0], nil
}

// Negate returns -a.
func (c *Context) Negate(a *Ciphertext) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkCiphertext(a); err != nil {
		return nil, err
	}
	out, err := c.evaluator(a.tag).MulNew(a.ct, int64(-1))
	if err != nil {
		return nil, engineErr("negate", err)
	}
	return c.wrap(a, out, a.length), nil
}

// Rotate cyclically shifts the slots of each row left by k. Negative k
// shifts right.
func (c *Context) Rotate(a *Ciphertext, k int) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkCiphertext(a); err != nil {
		return nil, err
	}
	if k%c.rowSize() == 0 {
		return a.Clone(), nil
	}
	galEl := c.params.GaloisElement(k)
	if !c.hasRotKey(a.tag, galEl) {
		return nil, fmt.Errorf("%w: no rotation key for index %d", ErrKeyNotFound, k)
	}
	out, err := c.evaluator(a.tag).RotateColumnsNew(a.ct, k)
	if err != nil {
		return nil, engineErr("rotate", err)
	}
	return c.wrap(a, out, a.length), nil
}

// Sum adds batch consecutive slots together; slot 0 of each group of batch
// slots receives the group sum.
func (c *Context) Sum(a *Ciphertext, batch int) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE | FeatureAdvancedSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkCiphertext(a); err != nil {
		return nil, err
	}
	return c.sum(a, batch)
}

func (c *Context) sum(a *Ciphertext, batch int) (*Ciphertext, error) {
	if !isPowerOfTwo(batch) || batch > c.rowSize() {
		return nil, fmt.Errorf("%w: batch size %d must be a power of two no larger than %d", ErrInvalidParam, batch, c.rowSize())
	}
	if batch == 1 {
		return a.Clone(), nil
	}
	for _, galEl := range rlwe.GaloisElementsForInnerSum(c.params, 1, batch) {
		if !c.hasRotKey(a.tag, galEl) {
			return nil, fmt.Errorf("%w: sum keys missing for batch size %d", ErrKeyNotFound, batch)
		}
	}
	out := bgv.NewCiphertext(c.params, a.ct.Degree(), a.ct.Level())
	if err := c.evaluator(a.tag).InnerSum(a.ct, 1, batch, out); err != nil {
		return nil, engineErr("sum", err)
	}
	return c.wrap(a, out, a.length), nil
}

// InnerProduct returns the slot-wise product of a and b summed over batch
// slots.
func (c *Context) InnerProduct(a, b *Ciphertext, batch int) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE | FeatureAdvancedSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkPair(a, b); err != nil {
		return nil, err
	}
	prod, err := c.mult(a, b)
	if err != nil {
		return nil, err
	}
	return c.sum(prod, batch)
}

// ModReduce drops the last modulus of a. It fails once only one modulus is
// left.
func (c *Context) ModReduce(a *Ciphertext) (*Ciphertext, error) {
	if err := c.lock(FeatureLeveledSHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkCiphertext(a); err != nil {
		return nil, err
	}
	if a.ct.Level() == 0 {
		return nil, fmt.Errorf("%w: mod reduce: ciphertext is already at the last modulus", ErrCrypto)
	}
	out := bgv.NewCiphertext(c.params, a.ct.Degree(), a.ct.Level()-1)
	if err := c.evaluator(a.tag).Rescale(a.ct, out); err != nil {
		return nil, engineErr("mod reduce", err)
	}
	return c.wrap(a, out, a.length), nil
}
