package fhe

import (
	"github.com/coinbase/cb-fhe-go/pkg/fhe/internal/backend"
)

// Encoding selects how values map onto the plaintext polynomial.
type Encoding uint8

const (
	// EncodingPacked places one value per slot.
	EncodingPacked = Encoding(backend.EncodingPacked)
	// EncodingCoef places one value per coefficient.
	EncodingCoef = Encoding(backend.EncodingCoef)
)

func (e Encoding) String() string { return backend.Encoding(e).String() }

// Plaintext is a vector of integers mod t. Its logical length may be shorter
// than its capacity; SetLength moves it within [0, Capacity].
type Plaintext struct {
	p *backend.Plaintext
}

// MakePackedPlaintext encodes 1..Slots values, one per slot.
func (c *Context) MakePackedPlaintext(values []int64) (*Plaintext, error) {
	return c.makePlaintext("MakePackedPlaintext", values, EncodingPacked)
}

// MakeCoefPackedPlaintext encodes 1..RingDim values, one per coefficient.
func (c *Context) MakeCoefPackedPlaintext(values []int64) (*Plaintext, error) {
	return c.makePlaintext("MakeCoefPackedPlaintext", values, EncodingCoef)
}

func (c *Context) makePlaintext(op string, values []int64, enc Encoding) (pt *Plaintext, err error) {
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return nil, err
	}
	if values == nil {
		return nil, errorf(op, ErrNullArgument, "values are nil")
	}
	p, err := be.MakePlaintext(values, backend.Encoding(enc))
	if err != nil {
		return nil, c.fail(op, err)
	}
	return &Plaintext{p: p}, nil
}

// Values returns a copy of the first Length values.
func (pt *Plaintext) Values() []int64 {
	if pt.closed() {
		return nil
	}
	return pt.p.Values()
}

func (pt *Plaintext) Length() int {
	if pt.closed() {
		return 0
	}
	return pt.p.Length()
}

// SetLength sets the logical length, clamped to [0, Capacity].
func (pt *Plaintext) SetLength(n int) {
	if !pt.closed() {
		pt.p.SetLength(n)
	}
}

func (pt *Plaintext) Capacity() int {
	if pt.closed() {
		return 0
	}
	return pt.p.Capacity()
}

func (pt *Plaintext) Encoding() Encoding {
	if pt.closed() {
		return 0
	}
	return Encoding(pt.p.Encoding())
}

// Close drops the plaintext. Accessors on a closed Plaintext return zero
// values and operations taking it report ErrClosed.
func (pt *Plaintext) Close() {
	if pt != nil {
		pt.p = nil
	}
}

func (pt *Plaintext) closed() bool { return pt == nil || pt.p == nil }

func (pt *Plaintext) value(op string) (*backend.Plaintext, error) {
	if pt == nil {
		return nil, errorf(op, ErrNullArgument, "plaintext is nil")
	}
	if pt.p == nil {
		return nil, errorf(op, ErrClosed, "plaintext")
	}
	return pt.p, nil
}
