package abi

import (
	"time"

	"github.com/coinbase/cb-fhe-go/pkg/fhe"
)

// EvalBootstrapSetup fixes the bootstrap configuration of ctx. dim1 may be
// nil.
func EvalBootstrapSetup(ctx Handle, levelBudget, dim1 *[2]uint32, slots, correctionFactor uint32) (st Status) {
	const op = "EvalBootstrapSetup"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, h("context", ctx), ptr("level budget", levelBudget)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	cfg := fhe.BootstrapConfig{LevelBudget: *levelBudget, Slots: slots, CorrectionFactor: correctionFactor}
	if dim1 != nil {
		cfg.Dim1 = *dim1
	}
	if err := c.EvalBootstrapSetup(cfg); err != nil {
		return fail(op, err)
	}
	return StatusOK
}

func EvalBootstrapKeyGen(ctx, sk Handle, slots uint32) (st Status) {
	const op = "EvalBootstrapKeyGen"
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
	if err := c.EvalBootstrapKeyGen(key, slots); err != nil {
		return fail(op, err)
	}
	return StatusOK
}

// EvalBootstrap refreshes ct to the top level. Calling it before setup and
// key generation is a crypto failure.
func EvalBootstrap(ctx, ct Handle, iterations, precision uint32, out *Handle) (st Status) {
	defer guard("EvalBootstrap", time.Now(), &st)
	return unary("EvalBootstrap", ctx, ct, out, func(c *fhe.Context, x *fhe.Ciphertext) (*fhe.Ciphertext, error) {
		return c.EvalBootstrap(x, iterations, precision)
	})
}
