package abi

import (
	"time"

	"github.com/coinbase/cb-fhe-go/internal/registry"
)

func Encrypt(ctx, pk, pt Handle, out *Handle) (st Status) {
	const op = "Encrypt"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), h("public key", pk), h("plaintext", pt), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	key, st := publicKeyArg(op, pk)
	if st != StatusOK {
		return st
	}
	p, st := plaintextArg(op, pt)
	if st != StatusOK {
		return st
	}
	ct, err := c.Encrypt(key, p)
	if err != nil {
		return fail(op, err)
	}
	return putCiphertext(out, ct)
}

// EncryptPrivate encrypts under the private key directly.
func EncryptPrivate(ctx, sk, pt Handle, out *Handle) (st Status) {
	const op = "EncryptPrivate"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), h("private key", sk), h("plaintext", pt), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	key, st := privateKeyArg(op, sk)
	if st != StatusOK {
		return st
	}
	p, st := plaintextArg(op, pt)
	if st != StatusOK {
		return st
	}
	ct, err := c.EncryptPrivate(key, p)
	if err != nil {
		return fail(op, err)
	}
	return putCiphertext(out, ct)
}

// Decrypt yields a plaintext whose length is the ciphertext's logical
// length.
func Decrypt(ctx, sk, ct Handle, out *Handle) (st Status) {
	const op = "Decrypt"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), h("private key", sk), h("ciphertext", ct), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	key, st := privateKeyArg(op, sk)
	if st != StatusOK {
		return st
	}
	v, st := ciphertextArg(op, "ciphertext", ct)
	if st != StatusOK {
		return st
	}
	pt, err := c.Decrypt(key, v)
	if err != nil {
		return fail(op, err)
	}
	*out = open(registry.KindPlaintext, true, pt)
	return StatusOK
}

func CiphertextGetLevel(ct Handle, out *uint32) (st Status) {
	const op = "CiphertextGetLevel"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("ciphertext", ct), ptr("out", out)); st != StatusOK {
		return st
	}
	v, st := ciphertextArg(op, "ciphertext", ct)
	if st != StatusOK {
		return st
	}
	lvl, err := v.Level()
	if err != nil {
		return fail(op, err)
	}
	*out = uint32(lvl)
	return StatusOK
}

func CiphertextClone(ct Handle, out *Handle) (st Status) {
	const op = "CiphertextClone"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("ciphertext", ct), ptr("out", out)); st != StatusOK {
		return st
	}
	v, st := ciphertextArg(op, "ciphertext", ct)
	if st != StatusOK {
		return st
	}
	cp, err := v.Clone()
	if err != nil {
		return fail(op, err)
	}
	return putCiphertext(out, cp)
}

func CiphertextDestroy(ct Handle) (st Status) {
	const op = "CiphertextDestroy"
	defer guard(op, time.Now(), &st)
	return destroy(op, ct, registry.KindCiphertext)
}
