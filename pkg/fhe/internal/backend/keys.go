package backend

import (
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/ring"
)

// SecretKey is engine secret key material plus the tag evaluation keys and
// ciphertexts derived from it are indexed by.
type SecretKey struct {
	key   *rlwe.SecretKey
	tag   string
	ctxID ID
	wiped atomic.Bool
}

// PublicKey is the encryption key matching a SecretKey with the same tag.
type PublicKey struct {
	key      *rlwe.PublicKey
	tag      string
	ctxID    ID
	released atomic.Bool
}

func (sk *SecretKey) Tag() string { return sk.tag }

func (pk *PublicKey) Tag() string { return pk.tag }

// Wipe zeroes the secret polynomial in place. Any later use of sk fails with
// ErrReleased.
func (sk *SecretKey) Wipe() {
	if sk == nil || sk.wiped.Swap(true) {
		return
	}
	wipePoly(sk.key.Value.Q)
	wipePoly(sk.key.Value.P)
}

// Release marks pk unusable. Public material needs no zeroing.
func (pk *PublicKey) Release() {
	if pk != nil {
		pk.released.Store(true)
	}
}

func wipePoly(p ring.Poly) {
	for _, row := range p.Coeffs {
		clear(row)
	}
}

func (sk *SecretKey) live() error {
	if sk.wiped.Load() {
		return fmt.Errorf("%w: private key material", ErrReleased)
	}
	return nil
}

func (pk *PublicKey) live() error {
	if pk.released.Load() {
		return fmt.Errorf("%w: public key material", ErrReleased)
	}
	return nil
}

// KeyGen draws a fresh key pair under a new tag.
func (c *Context) KeyGen() (*SecretKey, *PublicKey, error) {
	if err := c.lock(FeaturePKE); err != nil {
		return nil, nil, err
	}
	defer c.mu.Unlock()

	sk, pk := rlwe.NewKeyGenerator(c.params).GenKeyPairNew()
	tag := uuid.NewString()
	return &SecretKey{key: sk, tag: tag, ctxID: c.id}, &PublicKey{key: pk, tag: tag, ctxID: c.id}, nil
}

func (c *Context) checkSecret(sk *SecretKey) error {
	if err := sk.live(); err != nil {
		return err
	}
	return c.checkOwner(sk.ctxID, "private key")
}

// EvalMultKeyGen generates the relinearization key for sk's tag.
func (c *Context) EvalMultKeyGen(sk *SecretKey) error {
	if err := c.lock(FeatureKeySwitch); err != nil {
		return err
	}
	defer c.mu.Unlock()
	if err := c.checkSecret(sk); err != nil {
		return err
	}

	c.multKeys[sk.tag] = rlwe.NewKeyGenerator(c.params).GenRelinearizationKeyNew(sk.key)
	c.invalidate(sk.tag)
	return nil
}

// EvalRotateKeyGen generates slot rotation keys for each index. Index zero is
// the identity and needs no key.
func (c *Context) EvalRotateKeyGen(sk *SecretKey, indices []int) error {
	if err := c.lock(FeatureKeySwitch); err != nil {
		return err
	}
	defer c.mu.Unlock()
	if err := c.checkSecret(sk); err != nil {
		return err
	}

	galEls := make([]uint64, 0, len(indices))
	for _, k := range indices {
		if k == 0 {
			continue
		}
		galEls = append(galEls, c.params.GaloisElement(k))
	}
	c.genGaloisKeys(sk, galEls)
	return nil
}

// EvalSumKeyGen generates the rotations EvalSum and EvalInnerProduct need
// for any power-of-two batch up to one row of slots.
func (c *Context) EvalSumKeyGen(sk *SecretKey) error {
	if err := c.lock(FeatureAdvancedSHE); err != nil {
		return err
	}
	defer c.mu.Unlock()
	if err := c.checkSecret(sk); err != nil {
		return err
	}

	c.genGaloisKeys(sk, rlwe.GaloisElementsForInnerSum(c.params, 1, c.rowSize()))
	return nil
}

func (c *Context) genGaloisKeys(sk *SecretKey, galEls []uint64) {
	if len(galEls) == 0 {
		return
	}
	store := c.rotKeys[sk.tag]
	if store == nil {
		store = map[uint64]*rlwe.GaloisKey{}
		c.rotKeys[sk.tag] = store
	}
	kgen := rlwe.NewKeyGenerator(c.params)
	for _, galEl := range galEls {
		if _, ok := store[galEl]; ok {
			continue
		}
		store[galEl] = kgen.GenGaloisKeyNew(galEl, sk.key)
	}
	c.invalidate(sk.tag)
}

// rowSize is the number of slots a column rotation cycles through.
func (c *Context) rowSize() int {
	return c.params.MaxSlots() / 2
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// EvalKeyCounts reports how many relinearization keys and rotation keys the
// context holds across all tags.
func (c *Context) EvalKeyCounts() (mult, rot int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mult = len(c.multKeys)
	for _, store := range c.rotKeys {
		rot += len(store)
	}
	return mult, rot
}

func (c *Context) hasMultKey(tag string) bool {
	_, ok := c.multKeys[tag]
	return ok
}

func (c *Context) hasRotKey(tag string, galEl uint64) bool {
	_, ok := c.rotKeys[tag][galEl]
	return ok
}
