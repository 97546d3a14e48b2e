package backend

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
	"golang.org/x/crypto/blake2b"
)

// Feature is a capability that has to be enabled on a context before the
// operations that depend on it are accepted.
type Feature uint8

const (
	FeaturePKE Feature = 1 << iota
	FeatureKeySwitch
	FeatureLeveledSHE
	FeatureAdvancedSHE
	FeatureFHE

	featureAll = FeaturePKE | FeatureKeySwitch | FeatureLeveledSHE | FeatureAdvancedSHE | FeatureFHE
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeaturePKE, "PKE"},
	{FeatureKeySwitch, "KEYSWITCH"},
	{FeatureLeveledSHE, "LEVELEDSHE"},
	{FeatureAdvancedSHE, "ADVANCEDSHE"},
	{FeatureFHE, "FHE"},
}

func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			parts = append(parts, fn.name)
		}
	}
	if rest := f &^ featureAll; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// ID fingerprints a parameter set. Entities created under one context carry
// its ID so that cross-context use is caught before reaching the engine.
type ID [32]byte

func (id ID) String() string { return hex.EncodeToString(id[:]) }

// Equal compares in constant time.
func (id ID) Equal(o ID) bool { return subtle.ConstantTimeCompare(id[:], o[:]) == 1 }

func parseID(s string) (ID, error) {
	var id ID
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(id) {
		return id, fmt.Errorf("%w: malformed context id %q", ErrSerialization, s)
	}
	copy(id[:], raw)
	return id, nil
}

// Context owns a BGV parameter set together with the mutable state hanging
// off it: enabled features, evaluation keys and bootstrap configuration.
//
// Encoder and evaluators carry scratch buffers, so every engine call holds mu.
type Context struct {
	mu sync.Mutex

	params bgv.Parameters
	spec   ParamSpec
	id     ID

	features Feature
	encoder  *bgv.Encoder

	multKeys map[string]*rlwe.RelinearizationKey
	rotKeys  map[string]map[uint64]*rlwe.GaloisKey
	evals    map[string]*bgv.Evaluator

	boot   bootstrapState
	closed bool
}

// NewContext builds the engine parameters for spec.
func NewContext(spec ParamSpec) (*Context, error) {
	resolved, lit, err := resolve(spec)
	if err != nil {
		return nil, err
	}

	params, err := bgv.NewParametersFromLiteral(lit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}

	batch, err := checkBatchSize(resolved.BatchSize, params.MaxSlots())
	if err != nil {
		return nil, err
	}
	resolved.BatchSize = batch

	return newContext(params, resolved, 0)
}

func newContext(params bgv.Parameters, spec ParamSpec, features Feature) (*Context, error) {
	raw, err := params.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint parameters: %v", ErrCrypto, err)
	}

	return &Context{
		params:   params,
		spec:     spec,
		id:       ID(blake2b.Sum256(raw)),
		features: features,
		encoder:  bgv.NewEncoder(params),
		multKeys: map[string]*rlwe.RelinearizationKey{},
		rotKeys:  map[string]map[uint64]*rlwe.GaloisKey{},
		evals:    map[string]*bgv.Evaluator{},
	}, nil
}

func (c *Context) Params() bgv.Parameters { return c.params }

// Spec returns the parameter spec with every default filled in.
func (c *Context) Spec() ParamSpec { return c.spec }

func (c *Context) ID() ID { return c.id }

func (c *Context) RingDim() int { return c.params.N() }

func (c *Context) PlaintextModulus() uint64 { return c.params.PlaintextModulus() }

// CyclotomicOrder is 2N for the power-of-two cyclotomic rings BGV uses.
func (c *Context) CyclotomicOrder() int { return 2 * c.params.N() }

func (c *Context) Slots() int { return c.params.MaxSlots() }

func (c *Context) BatchSize() int { return int(c.spec.BatchSize) }

// MaxLevel is the number of rescales a fresh ciphertext can absorb.
func (c *Context) MaxLevel() int { return c.params.MaxLevel() }

// Enable turns on f. Enabling an already enabled feature changes nothing.
func (c *Context) Enable(f Feature) error {
	if f == 0 || f&^featureAll != 0 {
		return fmt.Errorf("%w: unknown feature %s", ErrInvalidParam, f)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("%w: context", ErrReleased)
	}
	c.features |= f
	return nil
}

func (c *Context) Enabled(f Feature) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.features&f == f
}

func (c *Context) Features() Feature {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.features
}

// lock acquires mu and checks that the context is alive and has every
// feature in need. The caller must call c.mu.Unlock when err is nil.
func (c *Context) lock(need Feature) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("%w: context", ErrReleased)
	}
	if missing := need &^ c.features; missing != 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: feature %s is not enabled", ErrCrypto, missing)
	}
	return nil
}

// Close drops the evaluation keys and wipes any private key bound for
// bootstrapping. It is safe to call more than once.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.boot.reset()
	c.multKeys = nil
	c.rotKeys = nil
	c.evals = nil
}

// evaluator returns the evaluator bound to the evaluation keys of tag. The
// caller holds mu.
func (c *Context) evaluator(tag string) *bgv.Evaluator {
	if eval, ok := c.evals[tag]; ok {
		return eval
	}

	var gks []*rlwe.GaloisKey
	for _, gk := range c.rotKeys[tag] {
		gks = append(gks, gk)
	}
	eval := bgv.NewEvaluator(c.params, rlwe.NewMemEvaluationKeySet(c.multKeys[tag], gks...))
	c.evals[tag] = eval
	return eval
}

// invalidate forgets the cached evaluator for tag after its keys changed.
func (c *Context) invalidate(tag string) {
	delete(c.evals, tag)
}

func (c *Context) checkOwner(id ID, what string) error {
	if !id.Equal(c.id) {
		return fmt.Errorf("%w: %s belongs to a different context", ErrCrypto, what)
	}
	return nil
}
