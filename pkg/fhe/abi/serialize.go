package abi

import (
	"fmt"
	"time"

	"github.com/coinbase/cb-fhe-go/internal/registry"
	"github.com/coinbase/cb-fhe-go/pkg/fhe"
)

// Format values are fixed by the C ABI.
type Format int32

const (
	FormatBinary Format = 0
	FormatJSON   Format = 1
)

func (f Format) String() string {
	ff, err := f.fhe()
	if err != nil {
		return fmt.Sprintf("Format(%d)", int32(f))
	}
	return ff.String()
}

func (f Format) fhe() (fhe.Format, error) {
	switch f {
	case FormatBinary:
		return fhe.FormatBinary, nil
	case FormatJSON:
		return fhe.FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: unknown format %d", fhe.ErrInvalidParam, int32(f))
	}
}

// serialize resolves the format and stores encode's output in out.
func serialize(op string, f Format, out *[]byte, encode func(fhe.Format) ([]byte, error)) Status {
	ff, err := f.fhe()
	if err != nil {
		return fail(op, err)
	}
	b, err := encode(ff)
	if err != nil {
		return fail(op, err)
	}
	*out = b
	return StatusOK
}

func SerializeContext(ctx Handle, f Format, out *[]byte) (st Status) {
	const op = "SerializeContext"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	return serialize(op, f, out, func(ff fhe.Format) ([]byte, error) { return fhe.SerializeContext(c, ff) })
}

// DeserializeContext rebuilds a context without evaluation keys.
func DeserializeContext(b []byte, f Format, out *Handle) (st Status) {
	const op = "DeserializeContext"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, data("data", b), ptr("out", out)); st != StatusOK {
		return st
	}
	ff, err := f.fhe()
	if err != nil {
		return fail(op, err)
	}
	c, err := fhe.DeserializeContext(b, ff, fhe.WithLogger(*logger.Load()))
	if err != nil {
		return fail(op, err)
	}
	*out = open(registry.KindContext, true, c)
	return StatusOK
}

func SerializePublicKey(pk Handle, f Format, out *[]byte) (st Status) {
	const op = "SerializePublicKey"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("public key", pk), ptr("out", out)); st != StatusOK {
		return st
	}
	key, st := publicKeyArg(op, pk)
	if st != StatusOK {
		return st
	}
	return serialize(op, f, out, func(ff fhe.Format) ([]byte, error) { return fhe.SerializePublicKey(key, ff) })
}

// DeserializePublicKey returns an owned key.
func DeserializePublicKey(b []byte, f Format, out *Handle) (st Status) {
	const op = "DeserializePublicKey"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, data("data", b), ptr("out", out)); st != StatusOK {
		return st
	}
	ff, err := f.fhe()
	if err != nil {
		return fail(op, err)
	}
	key, err := fhe.DeserializePublicKey(b, ff)
	if err != nil {
		return fail(op, err)
	}
	*out = open(registry.KindPublicKey, true, key)
	return StatusOK
}

// SerializePrivateKey writes the key in the clear. Free the buffer with
// SerializedDataFree.
func SerializePrivateKey(sk Handle, f Format, out *[]byte) (st Status) {
	const op = "SerializePrivateKey"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("private key", sk), ptr("out", out)); st != StatusOK {
		return st
	}
	key, st := privateKeyArg(op, sk)
	if st != StatusOK {
		return st
	}
	return serialize(op, f, out, func(ff fhe.Format) ([]byte, error) { return fhe.SerializePrivateKey(key, ff) })
}

// DeserializePrivateKey returns an owned key.
func DeserializePrivateKey(b []byte, f Format, out *Handle) (st Status) {
	const op = "DeserializePrivateKey"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, data("data", b), ptr("out", out)); st != StatusOK {
		return st
	}
	ff, err := f.fhe()
	if err != nil {
		return fail(op, err)
	}
	key, err := fhe.DeserializePrivateKey(b, ff)
	if err != nil {
		return fail(op, err)
	}
	*out = open(registry.KindPrivateKey, true, key)
	return StatusOK
}

func SerializePlaintext(pt Handle, f Format, out *[]byte) (st Status) {
	const op = "SerializePlaintext"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("plaintext", pt), ptr("out", out)); st != StatusOK {
		return st
	}
	p, st := plaintextArg(op, pt)
	if st != StatusOK {
		return st
	}
	return serialize(op, f, out, func(ff fhe.Format) ([]byte, error) { return fhe.SerializePlaintext(p, ff) })
}

func DeserializePlaintext(ctx Handle, b []byte, f Format, out *Handle) (st Status) {
	const op = "DeserializePlaintext"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), data("data", b), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	ff, err := f.fhe()
	if err != nil {
		return fail(op, err)
	}
	pt, err := c.DeserializePlaintext(b, ff)
	if err != nil {
		return fail(op, err)
	}
	*out = open(registry.KindPlaintext, true, pt)
	return StatusOK
}

func SerializeCiphertext(ct Handle, f Format, out *[]byte) (st Status) {
	const op = "SerializeCiphertext"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("ciphertext", ct), ptr("out", out)); st != StatusOK {
		return st
	}
	v, st := ciphertextArg(op, "ciphertext", ct)
	if st != StatusOK {
		return st
	}
	return serialize(op, f, out, func(ff fhe.Format) ([]byte, error) { return fhe.SerializeCiphertext(v, ff) })
}

func DeserializeCiphertext(ctx Handle, b []byte, f Format, out *Handle) (st Status) {
	const op = "DeserializeCiphertext"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), data("data", b), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	ff, err := f.fhe()
	if err != nil {
		return fail(op, err)
	}
	ct, err := c.DeserializeCiphertext(b, ff)
	if err != nil {
		return fail(op, err)
	}
	return putCiphertext(out, ct)
}

func SerializeEvalMultKeys(ctx Handle, f Format, out *[]byte) (st Status) {
	const op = "SerializeEvalMultKeys"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	return serialize(op, f, out, c.SerializeEvalMultKeys)
}

// DeserializeEvalMultKeys installs relinearization keys into ctx.
func DeserializeEvalMultKeys(ctx Handle, b []byte, f Format) (st Status) {
	const op = "DeserializeEvalMultKeys"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), data("data", b)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	ff, err := f.fhe()
	if err != nil {
		return fail(op, err)
	}
	if _, err := c.DeserializeEvalMultKeys(b, ff); err != nil {
		return fail(op, err)
	}
	return StatusOK
}

func SerializeEvalAutomorphismKeys(ctx Handle, f Format, out *[]byte) (st Status) {
	const op = "SerializeEvalAutomorphismKeys"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	return serialize(op, f, out, c.SerializeEvalAutomorphismKeys)
}

// DeserializeEvalAutomorphismKeys installs rotation keys into ctx.
func DeserializeEvalAutomorphismKeys(ctx Handle, b []byte, f Format) (st Status) {
	const op = "DeserializeEvalAutomorphismKeys"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), data("data", b)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	ff, err := f.fhe()
	if err != nil {
		return fail(op, err)
	}
	if _, err := c.DeserializeEvalAutomorphismKeys(b, ff); err != nil {
		return fail(op, err)
	}
	return StatusOK
}

// SerializedDataFree zeroizes a buffer returned by a Serialize call. The
// Go slice is then garbage; C callers get the allocation freed as well.
func SerializedDataFree(b []byte) {
	fhe.ZeroizeBytes(b)
}
