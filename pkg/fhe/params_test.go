package fhe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultParamsValid(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Params)
		field string
	}{
		{"modulus", func(p *Params) { p.PlaintextModulus = 1 }, "PlaintextModulus"},
		{"security", func(p *Params) { p.SecurityLevel = 80 }, "SecurityLevel"},
		{"relin degree", func(p *Params) { p.MaxRelinSkDeg = 3 }, "MaxRelinSkDeg"},
		{"ring dim", func(p *Params) { p.RingDim = 16 }, "RingDim"},
		{"mod size", func(p *Params) { p.ScalingModSize = 70 }, "ScalingModSize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.tweak(&p)
			err := p.Validate()
			require.ErrorIs(t, err, ErrInvalidParam)
			require.Contains(t, err.Error(), tt.field)

			_, err = NewContext(p)
			require.ErrorIs(t, err, ErrInvalidParam)
		})
	}
}

func TestLoadParams(t *testing.T) {
	p, err := LoadParams(strings.NewReader(`
multiplicative_depth: 3
plaintext_modulus: 786433
ring_dim: 8192
security_level: 0
`))
	require.NoError(t, err)
	require.Equal(t, uint32(3), p.MultiplicativeDepth)
	require.Equal(t, uint64(786433), p.PlaintextModulus)
	require.Equal(t, uint32(8192), p.RingDim)
	require.Equal(t, uint32(0), p.SecurityLevel)
	require.Equal(t, uint32(2), p.MaxRelinSkDeg)

	p, err = LoadParams(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, DefaultParams(), p)

	_, err = LoadParams(strings.NewReader("ring_dimension: 8192\n"))
	require.ErrorIs(t, err, ErrInvalidParam)

	_, err = LoadParams(strings.NewReader("security_level: 100\n"))
	require.ErrorIs(t, err, ErrInvalidParam)
}

func TestContextParamsFilled(t *testing.T) {
	ctx, err := NewContext(DefaultParams())
	require.NoError(t, err)
	defer ctx.Close()

	p := ctx.Params()
	require.Equal(t, uint32(8192), p.RingDim)
	require.Equal(t, uint32(56), p.FirstModSize)
	require.Equal(t, uint32(48), p.ScalingModSize)
	require.Equal(t, 8192, ctx.BatchSize())
	require.Equal(t, 2*ctx.RingDim(), ctx.CyclotomicOrder())
	require.Equal(t, 2, ctx.MaxLevel())
}

func TestVersion(t *testing.T) {
	require.Equal(t, Version, LibraryVersion())
	require.NotEmpty(t, EngineVersionString())
}
