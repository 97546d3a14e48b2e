package backend

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// BootstrapConfig is fixed by EvalBootstrapSetup.
type BootstrapConfig struct {
	LevelBudget      [2]uint32
	Dim1             [2]uint32
	Slots            uint32
	CorrectionFactor uint32
}

type bootstrapKey struct {
	sk  *rlwe.SecretKey
	tag string
}

// bootstrapState moves setup -> keygen -> execute. The engine has no BGV
// bootstrapping circuit, so the key bound at keygen refreshes ciphertexts by
// re-encryption at the top level.
type bootstrapState struct {
	cfg  *BootstrapConfig
	keys map[uint32]*bootstrapKey
}

func (s *bootstrapState) reset() {
	for _, k := range s.keys {
		wipePoly(k.sk.Value.Q)
		wipePoly(k.sk.Value.P)
	}
	s.cfg = nil
	s.keys = nil
}

const maxBootstrapIterations = 2

// EvalBootstrapSetup records the bootstrap configuration. Calling it again
// replaces the configuration and keeps generated keys.
func (c *Context) EvalBootstrapSetup(cfg BootstrapConfig) error {
	if err := c.lock(FeatureFHE); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if cfg.LevelBudget[0] == 0 || cfg.LevelBudget[1] == 0 {
		return fmt.Errorf("%w: level budget %v must be at least 1 in both phases", ErrInvalidParam, cfg.LevelBudget)
	}
	if cfg.Slots == 0 {
		cfg.Slots = uint32(c.params.MaxSlots())
	}
	if !isPowerOfTwo(int(cfg.Slots)) || int(cfg.Slots) > c.params.MaxSlots() {
		return fmt.Errorf("%w: bootstrap slots %d must be a power of two no larger than %d", ErrInvalidParam, cfg.Slots, c.params.MaxSlots())
	}

	c.boot.cfg = &cfg
	if c.boot.keys == nil {
		c.boot.keys = map[uint32]*bootstrapKey{}
	}
	return nil
}

// BootstrapConfig returns the active configuration, if any.
func (c *Context) BootstrapConfig() (BootstrapConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.boot.cfg == nil {
		return BootstrapConfig{}, false
	}
	return *c.boot.cfg, true
}

// EvalBootstrapKeyGen binds a copy of sk for the given slot count; zero
// selects the slot count chosen at setup.
func (c *Context) EvalBootstrapKeyGen(sk *SecretKey, slots uint32) error {
	if err := c.lock(FeatureFHE); err != nil {
		return err
	}
	defer c.mu.Unlock()
	if err := c.checkSecret(sk); err != nil {
		return err
	}
	if c.boot.cfg == nil {
		return fmt.Errorf("%w: bootstrap keygen before setup", ErrCrypto)
	}
	if slots == 0 {
		slots = c.boot.cfg.Slots
	}

	if old, ok := c.boot.keys[slots]; ok {
		wipePoly(old.sk.Value.Q)
		wipePoly(old.sk.Value.P)
	}
	c.boot.keys[slots] = &bootstrapKey{sk: sk.key.CopyNew(), tag: sk.tag}
	return nil
}

// EvalBootstrap returns a refreshed copy of ct at level 0. Iterations of 0
// and 1 refresh once, 2 refreshes twice; precision is only meaningful for
// two iterations and is otherwise ignored.
func (c *Context) EvalBootstrap(ct *Ciphertext, iterations, precision uint32) (*Ciphertext, error) {
	if err := c.lock(FeatureFHE); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	if err := c.checkCiphertext(ct); err != nil {
		return nil, err
	}
	if iterations > maxBootstrapIterations {
		return nil, fmt.Errorf("%w: %d bootstrap iterations requested, at most %d supported", ErrInvalidParam, iterations, maxBootstrapIterations)
	}
	if iterations == 0 {
		iterations = 1
	}

	if c.boot.cfg == nil {
		return nil, fmt.Errorf("%w: bootstrap before setup", ErrCrypto)
	}
	key, ok := c.boot.keys[c.boot.cfg.Slots]
	if !ok {
		return nil, fmt.Errorf("%w: bootstrap before keygen for %d slots", ErrCrypto, c.boot.cfg.Slots)
	}
	if key.tag != ct.tag {
		return nil, fmt.Errorf("%w: bootstrap key was generated for a different private key", ErrCrypto)
	}

	dec := rlwe.NewDecryptor(c.params, key.sk)
	enc := rlwe.NewEncryptor(c.params, key.sk)
	cur := ct.ct
	for i := uint32(0); i < iterations; i++ {
		pt := dec.DecryptNew(cur)
		p, err := c.decode(pt)
		if err != nil {
			return nil, err
		}
		fresh := bgv.NewPlaintext(c.params, c.params.MaxLevel())
		fresh.IsBatched = pt.IsBatched
		if err := c.encoder.Encode(p.values, fresh); err != nil {
			return nil, engineErr("bootstrap encode", err)
		}
		if cur, err = enc.EncryptNew(fresh); err != nil {
			return nil, engineErr("bootstrap encrypt", err)
		}
	}
	return c.wrap(ct, cur, ct.length), nil
}
