package fhe

import (
	"context"

	"github.com/coinbase/cb-fhe-go/pkg/fhe/internal/backend"
)

// BootstrapConfig is fixed by EvalBootstrapSetup. Slots 0 selects the full
// slot count.
type BootstrapConfig struct {
	LevelBudget      [2]uint32
	Dim1             [2]uint32
	Slots            uint32
	CorrectionFactor uint32
}

// EvalBootstrapSetup records the bootstrap configuration. Requires
// FeatureFHE.
func (c *Context) EvalBootstrapSetup(cfg BootstrapConfig) (err error) {
	const op = "EvalBootstrapSetup"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return err
	}
	if err := be.EvalBootstrapSetup(backend.BootstrapConfig(cfg)); err != nil {
		return c.fail(op, err)
	}
	got, _ := be.BootstrapConfig()
	c.logger.Info(context.Background(), "bootstrap configured", "level_budget", got.LevelBudget, "slots", got.Slots)
	return nil
}

// EvalBootstrapKeyGen binds sk for bootstrapping at the given slot count;
// 0 selects the count chosen at setup.
func (c *Context) EvalBootstrapKeyGen(sk *PrivateKey, slots uint32) (err error) {
	const op = "EvalBootstrapKeyGen"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return err
	}
	key, err := sk.material(op)
	if err != nil {
		return err
	}
	if err := be.EvalBootstrapKeyGen(key, slots); err != nil {
		return c.fail(op, err)
	}
	c.logger.Info(context.Background(), "bootstrap key bound", "tag", key.Tag(), "slots", slots)
	return nil
}

// EvalBootstrap returns a refreshed copy of ct at level 0. Iterations may be
// 0, 1 or 2; precision only matters for two iterations.
func (c *Context) EvalBootstrap(ct *Ciphertext, iterations, precision uint32) (*Ciphertext, error) {
	return c.unary("EvalBootstrap", ct, func(be *backend.Context, x *backend.Ciphertext) (*backend.Ciphertext, error) {
		return be.EvalBootstrap(x, iterations, precision)
	})
}
