package backend

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// Encoding selects how a vector maps onto the plaintext polynomial.
type Encoding uint8

const (
	// EncodingPacked places one value per slot (SIMD batching).
	EncodingPacked Encoding = iota
	// EncodingCoef places one value per polynomial coefficient.
	EncodingCoef
)

func (e Encoding) String() string {
	switch e {
	case EncodingPacked:
		return "packed"
	case EncodingCoef:
		return "coef"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

func parseEncoding(s string) (Encoding, error) {
	switch s {
	case "packed":
		return EncodingPacked, nil
	case "coef":
		return EncodingCoef, nil
	default:
		return 0, fmt.Errorf("%w: unknown plaintext encoding %q", ErrSerialization, s)
	}
}

// Plaintext is a vector of integers mod t with a logical length that can be
// shorter than the storage capacity.
type Plaintext struct {
	values   []int64
	length   int
	capacity int
	encoding Encoding
	ctxID    ID

	// pt is the engine encoding at the top level, built on first use.
	pt *rlwe.Plaintext
}

// Values returns the first Length values. Positions past the stored vector
// read as zero.
func (p *Plaintext) Values() []int64 {
	out := make([]int64, p.length)
	copy(out, p.values)
	return out
}

func (p *Plaintext) Length() int { return p.length }

func (p *Plaintext) Capacity() int { return p.capacity }

func (p *Plaintext) Encoding() Encoding { return p.encoding }

// SetLength changes the logical length, clamped to the capacity.
func (p *Plaintext) SetLength(n int) {
	switch {
	case n < 0:
		n = 0
	case n > p.capacity:
		n = p.capacity
	}
	p.length = n
}

func (c *Context) capacity(enc Encoding) int {
	if enc == EncodingCoef {
		return c.params.N()
	}
	return c.params.MaxSlots()
}

// MakePlaintext encodes values with the given encoding.
func (c *Context) MakePlaintext(values []int64, enc Encoding) (*Plaintext, error) {
	if enc != EncodingPacked && enc != EncodingCoef {
		return nil, fmt.Errorf("%w: unknown encoding %d", ErrInvalidParam, enc)
	}
	capacity := c.capacity(enc)
	if len(values) == 0 || len(values) > capacity {
		return nil, fmt.Errorf("%w: %d values do not fit a %s plaintext of capacity %d", ErrInvalidParam, len(values), enc, capacity)
	}

	if err := c.lock(0); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()

	p := &Plaintext{
		values:   append([]int64(nil), values...),
		length:   len(values),
		capacity: capacity,
		encoding: enc,
		ctxID:    c.id,
	}
	if _, err := c.encode(p); err != nil {
		return nil, err
	}
	return p, nil
}

// encode returns the engine plaintext for p, building it at the top level on
// first use. The caller holds mu.
func (c *Context) encode(p *Plaintext) (*rlwe.Plaintext, error) {
	if err := c.checkOwner(p.ctxID, "plaintext"); err != nil {
		return nil, err
	}
	if p.pt != nil {
		return p.pt, nil
	}
	pt := bgv.NewPlaintext(c.params, c.params.MaxLevel())
	pt.IsBatched = p.encoding == EncodingPacked
	if err := c.encoder.Encode(p.values, pt); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrCrypto, err)
	}
	p.pt = pt
	return pt, nil
}

// decode reads every slot (or coefficient) of an engine plaintext. The caller
// holds mu.
func (c *Context) decode(pt *rlwe.Plaintext) (*Plaintext, error) {
	enc := EncodingPacked
	if !pt.IsBatched {
		enc = EncodingCoef
	}
	capacity := c.capacity(enc)
	values := make([]int64, capacity)
	if err := c.encoder.Decode(pt, values); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCrypto, err)
	}
	return &Plaintext{
		values:   values,
		length:   capacity,
		capacity: capacity,
		encoding: enc,
		ctxID:    c.id,
	}, nil
}
