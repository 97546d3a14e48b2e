package abi

import (
	"time"

	"github.com/coinbase/cb-fhe-go/internal/registry"
)

func KeyGen(ctx Handle, out *Handle) (st Status) {
	const op = "KeyGen"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	kp, err := c.KeyGen()
	if err != nil {
		return fail(op, err)
	}
	*out = open(registry.KindKeyPair, true, kp)
	return StatusOK
}

// KeyPairGetPublicKey issues a view of the pair's public key. Each call
// returns a new, independently destroyable handle.
func KeyPairGetPublicKey(kp Handle, out *Handle) (st Status) {
	const op = "KeyPairGetPublicKey"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("key pair", kp), ptr("out", out)); st != StatusOK {
		return st
	}
	pair, st := keyPairArg(op, kp)
	if st != StatusOK {
		return st
	}
	*out = open(registry.KindPublicKey, false, pair.PublicKey())
	return StatusOK
}

// KeyPairGetPrivateKey issues a view of the pair's private key.
func KeyPairGetPrivateKey(kp Handle, out *Handle) (st Status) {
	const op = "KeyPairGetPrivateKey"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("key pair", kp), ptr("out", out)); st != StatusOK {
		return st
	}
	pair, st := keyPairArg(op, kp)
	if st != StatusOK {
		return st
	}
	*out = open(registry.KindPrivateKey, false, pair.PrivateKey())
	return StatusOK
}

// KeyPairDestroy wipes the pair. Views issued from it stay registered until
// destroyed but fail with InvalidParam.
func KeyPairDestroy(kp Handle) (st Status) {
	const op = "KeyPairDestroy"
	defer guard(op, time.Now(), &st)
	return destroy(op, kp, registry.KindKeyPair)
}

func PublicKeyDestroy(pk Handle) (st Status) {
	const op = "PublicKeyDestroy"
	defer guard(op, time.Now(), &st)
	return destroy(op, pk, registry.KindPublicKey)
}

func PrivateKeyDestroy(sk Handle) (st Status) {
	const op = "PrivateKeyDestroy"
	defer guard(op, time.Now(), &st)
	return destroy(op, sk, registry.KindPrivateKey)
}

func EvalMultKeysGen(ctx, sk Handle) (st Status) {
	const op = "EvalMultKeysGen"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), h("private key", sk)); st != StatusOK {
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
	if err := c.EvalMultKeyGen(key); err != nil {
		return fail(op, err)
	}
	return StatusOK
}

// EvalRotateKeysGen generates a rotation key per index. Index 0 is skipped.
func EvalRotateKeysGen(ctx, sk Handle, indices []int32) (st Status) {
	const op = "EvalRotateKeysGen"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), h("private key", sk)); st != StatusOK {
		return st
	}
	if indices == nil {
		return null(op, "indices")
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	key, st := privateKeyArg(op, sk)
	if st != StatusOK {
		return st
	}
	idx := make([]int, len(indices))
	for i, k := range indices {
		idx[i] = int(k)
	}
	if err := c.EvalRotateKeyGen(key, idx); err != nil {
		return fail(op, err)
	}
	return StatusOK
}

// EvalSumKeysGen generates the rotation keys EvalSum and EvalInnerProduct
// need.
func EvalSumKeysGen(ctx, sk Handle) (st Status) {
	const op = "EvalSumKeysGen"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), h("private key", sk)); st != StatusOK {
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
	if err := c.EvalSumKeyGen(key); err != nil {
		return fail(op, err)
	}
	return StatusOK
}
