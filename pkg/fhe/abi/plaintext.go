package abi

import (
	"time"

	"github.com/coinbase/cb-fhe-go/internal/registry"
	"github.com/coinbase/cb-fhe-go/pkg/fhe"
)

type encodeFn func(*fhe.Context, []int64) (*fhe.Plaintext, error)

func makePlaintext(op string, ctx Handle, values []int64, out *Handle, encode encodeFn) Status {
	if st := nulls(op, h("context", ctx), arg{"values", values == nil}, ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	pt, err := encode(c, values)
	if err != nil {
		return fail(op, err)
	}
	*out = open(registry.KindPlaintext, true, pt)
	return StatusOK
}

// MakePackedPlaintext encodes between 1 and BatchSize values into slots.
func MakePackedPlaintext(ctx Handle, values []int64, out *Handle) (st Status) {
	defer guard("MakePackedPlaintext", time.Now(), &st)
	return makePlaintext("MakePackedPlaintext", ctx, values, out, (*fhe.Context).MakePackedPlaintext)
}

// MakeCoefPackedPlaintext encodes between 1 and RingDim values as
// polynomial coefficients.
func MakeCoefPackedPlaintext(ctx Handle, values []int64, out *Handle) (st Status) {
	defer guard("MakeCoefPackedPlaintext", time.Now(), &st)
	return makePlaintext("MakeCoefPackedPlaintext", ctx, values, out, (*fhe.Context).MakeCoefPackedPlaintext)
}

// PlaintextGetValues copies min(Length, len(out)) values into out and
// stores the count in n.
func PlaintextGetValues(pt Handle, out []int64, n *int) (st Status) {
	const op = "PlaintextGetValues"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("plaintext", pt), arg{"out", out == nil}, ptr("n", n)); st != StatusOK {
		return st
	}
	p, st := plaintextArg(op, pt)
	if st != StatusOK {
		return st
	}
	*n = copy(out, p.Values())
	return StatusOK
}

func PlaintextGetLength(pt Handle, out *int) (st Status) {
	const op = "PlaintextGetLength"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("plaintext", pt), ptr("out", out)); st != StatusOK {
		return st
	}
	p, st := plaintextArg(op, pt)
	if st != StatusOK {
		return st
	}
	*out = p.Length()
	return StatusOK
}

// PlaintextSetLength sets the logical length, clamped to the capacity.
func PlaintextSetLength(pt Handle, n int) (st Status) {
	const op = "PlaintextSetLength"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("plaintext", pt)); st != StatusOK {
		return st
	}
	if n < 0 {
		return invalid(op, "negative length %d", n)
	}
	p, st := plaintextArg(op, pt)
	if st != StatusOK {
		return st
	}
	p.SetLength(n)
	return StatusOK
}

func PlaintextDestroy(pt Handle) (st Status) {
	const op = "PlaintextDestroy"
	defer guard(op, time.Now(), &st)
	return destroy(op, pt, registry.KindPlaintext)
}
