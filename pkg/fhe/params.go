package fhe

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/coinbase/cb-fhe-go/pkg/fhe/internal/backend"
)

var validate = validator.New()

// Params describes a BGV parameter set. Zero means "use the default" for
// every size-like field.
type Params struct {
	// MultiplicativeDepth is the number of multiplications a fresh
	// ciphertext can absorb before its last modulus is reached.
	MultiplicativeDepth uint32 `yaml:"multiplicative_depth" json:"multiplicative_depth" validate:"lte=256"`
	PlaintextModulus    uint64 `yaml:"plaintext_modulus" json:"plaintext_modulus" validate:"gte=2"`
	// SecurityLevel is 0 (no check), 128, 192 or 256 bits.
	SecurityLevel  uint32 `yaml:"security_level" json:"security_level" validate:"oneof=0 128 192 256"`
	RingDim        uint32 `yaml:"ring_dim" json:"ring_dim" validate:"omitempty,min=1024,max=131072"`
	BatchSize      uint32 `yaml:"batch_size" json:"batch_size"`
	MaxRelinSkDeg  uint32 `yaml:"max_relin_sk_deg" json:"max_relin_sk_deg" validate:"lte=2"`
	FirstModSize   uint32 `yaml:"first_mod_size" json:"first_mod_size" validate:"omitempty,min=20,max=60"`
	ScalingModSize uint32 `yaml:"scaling_mod_size" json:"scaling_mod_size" validate:"omitempty,min=20,max=60"`
	NumLargeDigits uint32 `yaml:"num_large_digits" json:"num_large_digits" validate:"lte=32"`
}

// DefaultParams returns depth 2, t = 65537 at 128-bit security with
// relinearization up to secret-key degree 2.
func DefaultParams() Params {
	return Params{
		MultiplicativeDepth: 2,
		PlaintextModulus:    65537,
		SecurityLevel:       128,
		MaxRelinSkDeg:       backend.DefaultMaxRelinSkDeg,
	}
}

// Validate checks the field ranges. Constraints that depend on the built
// parameters, such as the batch size, are checked by NewContext.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errorf("Params.Validate", ErrInvalidParam, "%s", formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	switch e.Tag() {
	case "min", "gte":
		return fmt.Sprintf("%s: must be at least %s", e.Field(), e.Param())
	case "max", "lte":
		return fmt.Sprintf("%s: must not exceed %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s: validation failed (%s)", e.Field(), e.Tag())
	}
}

// LoadParams reads a YAML parameter profile. Fields left out of the profile
// keep their DefaultParams value.
func LoadParams(r io.Reader) (Params, error) {
	p := DefaultParams()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Params{}, errorf("LoadParams", ErrInvalidParam, "%v", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (p Params) toBackend() backend.ParamSpec {
	return backend.ParamSpec{
		MultiplicativeDepth: p.MultiplicativeDepth,
		PlaintextModulus:    p.PlaintextModulus,
		SecurityLevel:       p.SecurityLevel,
		RingDim:             p.RingDim,
		BatchSize:           p.BatchSize,
		MaxRelinSkDeg:       p.MaxRelinSkDeg,
		FirstModSize:        p.FirstModSize,
		ScalingModSize:      p.ScalingModSize,
		NumLargeDigits:      p.NumLargeDigits,
	}
}

func paramsFromBackend(s backend.ParamSpec) Params {
	return Params(s)
}
