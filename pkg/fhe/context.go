package fhe

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/coinbase/cb-fhe-go/pkg/fhe/internal/backend"
	"github.com/coinbase/cb-fhe-go/pkg/fhe/logging"
)

// Feature is a capability that must be enabled on a Context before the
// operations depending on it are accepted.
type Feature uint8

const (
	FeaturePKE         = Feature(backend.FeaturePKE)
	FeatureKeySwitch   = Feature(backend.FeatureKeySwitch)
	FeatureLeveledSHE  = Feature(backend.FeatureLeveledSHE)
	FeatureAdvancedSHE = Feature(backend.FeatureAdvancedSHE)
	FeatureFHE         = Feature(backend.FeatureFHE)
)

func (f Feature) String() string { return backend.Feature(f).String() }

// Option configures a Context.
type Option func(*options)

type options struct {
	logger logging.Logger
}

// WithLogger routes the context's log records to l. Contexts log nothing
// unless a logger is supplied.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Context is a BGV parameter set together with its enabled features,
// evaluation keys and bootstrap configuration.
//
// Memory management: call Close when done, or rely on the finalizer.
type Context struct {
	be     *backend.Context
	logger logging.Logger
	closed atomic.Bool
}

// NewContext validates p and builds the engine parameters.
func NewContext(p Params, opts ...Option) (ctx *Context, err error) {
	const op = "NewContext"
	defer guard(op, &err)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	be, err := backend.NewContext(p.toBackend())
	if err != nil {
		return nil, wrapErr(op, err)
	}
	c := wrapContext(be, opts)
	c.logger.Info(context.Background(), "context created",
		"ring_dim", be.RingDim(),
		"plaintext_modulus", be.PlaintextModulus(),
		"slots", be.Slots(),
		"max_level", be.MaxLevel(),
	)
	return c, nil
}

func wrapContext(be *backend.Context, opts []Option) *Context {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Context{be: be, logger: o.logger.With("context_id", be.ID().String()[:16])}
	runtime.SetFinalizer(c, (*Context).Close)
	return c
}

// Close drops the evaluation keys and wipes private key material bound for
// bootstrapping. It is safe to call more than once.
func (c *Context) Close() {
	if c == nil || c.closed.Swap(true) {
		return
	}
	c.be.Close()
	runtime.SetFinalizer(c, nil)
}

// live returns the backend context or the error op reports for a nil or
// closed receiver.
func (c *Context) live(op string) (*backend.Context, error) {
	if c == nil {
		return nil, errorf(op, ErrNullArgument, "context is nil")
	}
	if c.closed.Load() {
		return nil, errorf(op, ErrClosed, "context")
	}
	return c.be, nil
}

// fail wraps err for op and logs engine-side failures.
func (c *Context) fail(op string, err error) error {
	werr := wrapErr(op, err)
	switch CodeOf(werr) {
	case CodeCryptoFailure, CodeInternal:
		c.logger.Warn(context.Background(), "operation failed", "op", op, "error", werr)
	}
	return werr
}

// Params returns the parameters with every default filled in.
func (c *Context) Params() Params { return paramsFromBackend(c.be.Spec()) }

// ID is a hex fingerprint of the engine parameters. Contexts built from the
// same parameters share it.
func (c *Context) ID() string { return c.be.ID().String() }

func (c *Context) RingDim() int { return c.be.RingDim() }

func (c *Context) PlaintextModulus() uint64 { return c.be.PlaintextModulus() }

func (c *Context) CyclotomicOrder() int { return c.be.CyclotomicOrder() }

func (c *Context) BatchSize() int { return c.be.BatchSize() }

// Slots is the capacity of a packed plaintext.
func (c *Context) Slots() int { return c.be.Slots() }

func (c *Context) MaxLevel() int { return c.be.MaxLevel() }

func (c *Context) Features() Feature { return Feature(c.be.Features()) }

// Enable turns on f. Enabling a feature twice is not an error.
func (c *Context) Enable(f Feature) (err error) {
	const op = "Enable"
	defer guard(op, &err)
	be, err := c.live(op)
	if err != nil {
		return err
	}
	if err := be.Enable(backend.Feature(f)); err != nil {
		return c.fail(op, err)
	}
	c.logger.Debug(context.Background(), "feature enabled", "feature", f.String())
	return nil
}

func (c *Context) EnablePKE() error         { return c.Enable(FeaturePKE) }
func (c *Context) EnableKeySwitch() error   { return c.Enable(FeatureKeySwitch) }
func (c *Context) EnableLeveledSHE() error  { return c.Enable(FeatureLeveledSHE) }
func (c *Context) EnableAdvancedSHE() error { return c.Enable(FeatureAdvancedSHE) }
func (c *Context) EnableFHE() error         { return c.Enable(FeatureFHE) }

// EvalKeyCounts reports the number of relinearization and rotation keys
// held across all key tags.
func (c *Context) EvalKeyCounts() (mult, rot int) { return c.be.EvalKeyCounts() }
