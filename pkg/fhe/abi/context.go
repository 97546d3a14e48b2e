package abi

import (
	"time"

	"github.com/coinbase/cb-fhe-go/internal/registry"
	"github.com/coinbase/cb-fhe-go/pkg/fhe"
)

// ParamsDefault returns depth 2, t = 65537, 128-bit security and relin
// degree 2 with every size-like field left to the engine.
func ParamsDefault() fhe.Params { return fhe.DefaultParams() }

// CryptoContextCreateBGV validates p and builds a context.
func CryptoContextCreateBGV(p *fhe.Params, out *Handle) (st Status) {
	const op = "CryptoContextCreateBGV"
	defer guard(op, time.Now(), &st)
	if st := nulls(op, ptr("params", p), ptr("out", out)); st != StatusOK {
		return st
	}
	c, err := fhe.NewContext(*p, fhe.WithLogger(*logger.Load()))
	if err != nil {
		return fail(op, err)
	}
	*out = open(registry.KindContext, true, c)
	return StatusOK
}

// CryptoContextDestroy releases ctx. Objects created under it keep their
// handles but fail with InvalidParam.
func CryptoContextDestroy(ctx Handle) (st Status) {
	const op = "CryptoContextDestroy"
	defer guard(op, time.Now(), &st)
	return destroy(op, ctx, registry.KindContext)
}

func enable(op string, ctx Handle, f fhe.Feature) Status {
	if st := nulls(op, h("context", ctx)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	if err := c.Enable(f); err != nil {
		return fail(op, err)
	}
	return StatusOK
}

func EnablePKE(ctx Handle) (st Status) {
	defer guard("EnablePKE", time.Now(), &st)
	return enable("EnablePKE", ctx, fhe.FeaturePKE)
}

func EnableKeySwitch(ctx Handle) (st Status) {
	defer guard("EnableKeySwitch", time.Now(), &st)
	return enable("EnableKeySwitch", ctx, fhe.FeatureKeySwitch)
}

func EnableLeveledSHE(ctx Handle) (st Status) {
	defer guard("EnableLeveledSHE", time.Now(), &st)
	return enable("EnableLeveledSHE", ctx, fhe.FeatureLeveledSHE)
}

func EnableAdvancedSHE(ctx Handle) (st Status) {
	defer guard("EnableAdvancedSHE", time.Now(), &st)
	return enable("EnableAdvancedSHE", ctx, fhe.FeatureAdvancedSHE)
}

func EnableFHE(ctx Handle) (st Status) {
	defer guard("EnableFHE", time.Now(), &st)
	return enable("EnableFHE", ctx, fhe.FeatureFHE)
}

// getter resolves ctx and stores get(c) into out.
func getter[T any](op string, ctx Handle, out *T, get func(*fhe.Context) T) Status {
	if st := nulls(op, h("context", ctx), ptr("out", out)); st != StatusOK {
		return st
	}
	c, st := contextArg(op, ctx)
	if st != StatusOK {
		return st
	}
	*out = get(c)
	return StatusOK
}

func GetRingDim(ctx Handle, out *uint32) (st Status) {
	defer guard("GetRingDim", time.Now(), &st)
	return getter("GetRingDim", ctx, out, func(c *fhe.Context) uint32 { return uint32(c.RingDim()) })
}

func GetPlaintextModulus(ctx Handle, out *uint64) (st Status) {
	defer guard("GetPlaintextModulus", time.Now(), &st)
	return getter("GetPlaintextModulus", ctx, out, (*fhe.Context).PlaintextModulus)
}

func GetCyclotomicOrder(ctx Handle, out *uint32) (st Status) {
	defer guard("GetCyclotomicOrder", time.Now(), &st)
	return getter("GetCyclotomicOrder", ctx, out, func(c *fhe.Context) uint32 { return uint32(c.CyclotomicOrder()) })
}

func GetBatchSize(ctx Handle, out *uint32) (st Status) {
	defer guard("GetBatchSize", time.Now(), &st)
	return getter("GetBatchSize", ctx, out, func(c *fhe.Context) uint32 { return uint32(c.BatchSize()) })
}

func GetMaxLevel(ctx Handle, out *uint32) (st Status) {
	defer guard("GetMaxLevel", time.Now(), &st)
	return getter("GetMaxLevel", ctx, out, func(c *fhe.Context) uint32 { return uint32(c.MaxLevel()) })
}
