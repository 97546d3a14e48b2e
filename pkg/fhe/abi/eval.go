package abi

import (
	"time"

	"github.com/coinbase/cb-fhe-go/pkg/fhe"
)

type (
	unaryFn    func(*fhe.Context, *fhe.Ciphertext) (*fhe.Ciphertext, error)
	binaryFn   func(*fhe.Context, *fhe.Ciphertext, *fhe.Ciphertext) (*fhe.Ciphertext, error)
	plainFn    func(*fhe.Context, *fhe.Ciphertext, *fhe.Plaintext) (*fhe.Ciphertext, error)
	inPlaceFn  func(*fhe.Context, *fhe.Ciphertext) error
	inPlace2Fn func(*fhe.Context, *fhe.Ciphertext, *fhe.Ciphertext) error
)

func unary(op string, ctx, a Handle, out *Handle, f unaryFn) Status {
	if st := nulls(op, h("context", ctx), h("ciphertext", a), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	x, st := ciphertextArg(op, "ciphertext", a)
	if st != StatusOK {
		return st
	}
	res, err := f(c, x)
	if err != nil {
		return fail(op, err)
	}
	return putCiphertext(out, res)
}

func binary(op string, ctx, a, b Handle, out *Handle, f binaryFn) Status {
	if st := nulls(op, h("context", ctx), h("lhs", a), h("rhs", b), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	x, st := ciphertextArg(op, "lhs", a)
	if st != StatusOK {
		return st
	}
	y, st := ciphertextArg(op, "rhs", b)
	if st != StatusOK {
		return st
	}
	res, err := f(c, x, y)
	if err != nil {
		return fail(op, err)
	}
	return putCiphertext(out, res)
}

func withPlain(op string, ctx, a, pt Handle, out *Handle, f plainFn) Status {
	if st := nulls(op, h("context", ctx), h("ciphertext", a), h("plaintext", pt), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	x, st := ciphertextArg(op, "ciphertext", a)
	if st != StatusOK {
		return st
	}
	p, st := plaintextArg(op, pt)
	if st != StatusOK {
		return st
	}
	res, err := f(c, x, p)
	if err != nil {
		return fail(op, err)
	}
	return putCiphertext(out, res)
}

func inPlace(op string, ctx, a Handle, f inPlaceFn) Status {
	if st := nulls(op, h("context", ctx), h("ciphertext", a)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	x, st := ciphertextArg(op, "ciphertext", a)
	if st != StatusOK {
		return st
	}
	if err := f(c, x); err != nil {
		return fail(op, err)
	}
	return StatusOK
}

func inPlace2(op string, ctx, a, b Handle, f inPlace2Fn) Status {
	if st := nulls(op, h("context", ctx), h("lhs", a), h("rhs", b)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	x, st := ciphertextArg(op, "lhs", a)
	if st != StatusOK {
		return st
	}
	y, st := ciphertextArg(op, "rhs", b)
	if st != StatusOK {
		return st
	}
	if err := f(c, x, y); err != nil {
		return fail(op, err)
	}
	return StatusOK
}

func EvalAdd(ctx, a, b Handle, out *Handle) (st Status) {
	defer guard("EvalAdd", time.Now(), &st)
	return binary("EvalAdd", ctx, a, b, out, (*fhe.Context).Add)
}

// EvalAddInPlace stores a+b into a.
func EvalAddInPlace(ctx, a, b Handle) (st Status) {
	defer guard("EvalAddInPlace", time.Now(), &st)
	return inPlace2("EvalAddInPlace", ctx, a, b, (*fhe.Context).AddInPlace)
}

func EvalAddPlaintext(ctx, a, pt Handle, out *Handle) (st Status) {
	defer guard("EvalAddPlaintext", time.Now(), &st)
	return withPlain("EvalAddPlaintext", ctx, a, pt, out, (*fhe.Context).AddPlaintext)
}

func EvalSub(ctx, a, b Handle, out *Handle) (st Status) {
	defer guard("EvalSub", time.Now(), &st)
	return binary("EvalSub", ctx, a, b, out, (*fhe.Context).Sub)
}

func EvalSubInPlace(ctx, a, b Handle) (st Status) {
	defer guard("EvalSubInPlace", time.Now(), &st)
	return inPlace2("EvalSubInPlace", ctx, a, b, (*fhe.Context).SubInPlace)
}

func EvalSubPlaintext(ctx, a, pt Handle, out *Handle) (st Status) {
	defer guard("EvalSubPlaintext", time.Now(), &st)
	return withPlain("EvalSubPlaintext", ctx, a, pt, out, (*fhe.Context).SubPlaintext)
}

// EvalMult relinearizes and, while a modulus remains, rescales the product.
func EvalMult(ctx, a, b Handle, out *Handle) (st Status) {
	defer guard("EvalMult", time.Now(), &st)
	return binary("EvalMult", ctx, a, b, out, (*fhe.Context).Mult)
}

// EvalMultInPlace computes the product and assigns it into a.
func EvalMultInPlace(ctx, a, b Handle) (st Status) {
	defer guard("EvalMultInPlace", time.Now(), &st)
	return inPlace2("EvalMultInPlace", ctx, a, b, (*fhe.Context).MultInPlace)
}

// EvalMultNoRelin returns the degree-2 product.
func EvalMultNoRelin(ctx, a, b Handle, out *Handle) (st Status) {
	defer guard("EvalMultNoRelin", time.Now(), &st)
	return binary("EvalMultNoRelin", ctx, a, b, out, (*fhe.Context).MultNoRelin)
}

func EvalRelinearize(ctx, a Handle, out *Handle) (st Status) {
	defer guard("EvalRelinearize", time.Now(), &st)
	return unary("EvalRelinearize", ctx, a, out, (*fhe.Context).Relinearize)
}

func EvalMultPlaintext(ctx, a, pt Handle, out *Handle) (st Status) {
	defer guard("EvalMultPlaintext", time.Now(), &st)
	return withPlain("EvalMultPlaintext", ctx, a, pt, out, (*fhe.Context).MultPlaintext)
}

// EvalMultMany multiplies cts as a balanced product tree. An empty list or
// a null element is a null pointer.
func EvalMultMany(ctx Handle, cts []Handle, out *Handle) (st Status) {
	const op = "EvalMultMany"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), ptr("out", out)); st != StatusOK {
		return st
	}
	if len(cts) == 0 {
		return null(op, "ciphertext list")
	}
	for _, v := range cts {
		if v == 0 {
			return null(op, "ciphertext list element")
		}
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	vals := make([]*fhe.Ciphertext, len(cts))
	for i, v := range cts {
		if vals[i], st = ciphertextArg(op, "ciphertext list element", v); st != StatusOK {
			return st
		}
	}
	res, err := c.MultMany(vals)
	if err != nil {
		return fail(op, err)
	}
	return putCiphertext(out, res)
}

func EvalNegate(ctx, a Handle, out *Handle) (st Status) {
	defer guard("EvalNegate", time.Now(), &st)
	return unary("EvalNegate", ctx, a, out, (*fhe.Context).Negate)
}

func EvalNegateInPlace(ctx, a Handle) (st Status) {
	defer guard("EvalNegateInPlace", time.Now(), &st)
	return inPlace("EvalNegateInPlace", ctx, a, (*fhe.Context).NegateInPlace)
}

// EvalRotate rotates the slot rows left by k. The rotation key for k must
// have been generated.
func EvalRotate(ctx, a Handle, k int32, out *Handle) (st Status) {
	defer guard("EvalRotate", time.Now(), &st)
	return unary("EvalRotate", ctx, a, out, func(c *fhe.Context, x *fhe.Ciphertext) (*fhe.Ciphertext, error) {
		return c.Rotate(x, int(k))
	})
}

func EvalRotateInPlace(ctx, a Handle, k int32) (st Status) {
	defer guard("EvalRotateInPlace", time.Now(), &st)
	return inPlace("EvalRotateInPlace", ctx, a, func(c *fhe.Context, x *fhe.Ciphertext) error {
		return c.RotateInPlace(x, int(k))
	})
}

// EvalSum adds batch consecutive slots. The first slot of each batch-sized
// group receives the group sum.
func EvalSum(ctx, a Handle, batch uint32, out *Handle) (st Status) {
	defer guard("EvalSum", time.Now(), &st)
	return unary("EvalSum", ctx, a, out, func(c *fhe.Context, x *fhe.Ciphertext) (*fhe.Ciphertext, error) {
		return c.Sum(x, int(batch))
	})
}

func EvalInnerProduct(ctx, a, b Handle, batch uint32, out *Handle) (st Status) {
	defer guard("EvalInnerProduct", time.Now(), &st)
	return binary("EvalInnerProduct", ctx, a, b, out, func(c *fhe.Context, x, y *fhe.Ciphertext) (*fhe.Ciphertext, error) {
		return c.InnerProduct(x, y, int(batch))
	})
}

// ModReduce drops one modulus. It fails on the last one.
func ModReduce(ctx, a Handle, out *Handle) (st Status) {
	defer guard("ModReduce", time.Now(), &st)
	return unary("ModReduce", ctx, a, out, (*fhe.Context).ModReduce)
}

func ModReduceInPlace(ctx, a Handle) (st Status) {
	defer guard("ModReduceInPlace", time.Now(), &st)
	return inPlace("ModReduceInPlace", ctx, a, (*fhe.Context).ModReduceInPlace)
}
