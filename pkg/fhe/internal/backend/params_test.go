package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	spec, lit, err := resolve(ParamSpec{MultiplicativeDepth: 2, PlaintextModulus: 65537})
	require.NoError(t, err)

	require.Equal(t, uint32(DefaultFirstModSize), spec.FirstModSize)
	require.Equal(t, uint32(DefaultScalingModSize), spec.ScalingModSize)
	require.Equal(t, uint32(DefaultMaxRelinSkDeg), spec.MaxRelinSkDeg)
	require.Equal(t, uint32(1), spec.NumLargeDigits)
	require.Equal(t, []int{56, 48, 48}, lit.LogQ)
	require.Equal(t, []int{60}, lit.LogP)
	// 56+48+48+60 = 212 bits fits 2^13 at 128-bit security, not 2^12.
	require.Equal(t, 13, lit.LogN)
	require.Equal(t, uint32(8192), spec.RingDim)
}

func TestResolveSecurityPicksLargerRing(t *testing.T) {
	base := ParamSpec{MultiplicativeDepth: 4, PlaintextModulus: 65537}
	_, lit128, err := resolve(base)
	require.NoError(t, err)

	base.SecurityLevel = 256
	_, lit256, err := resolve(base)
	require.NoError(t, err)
	require.Greater(t, lit256.LogN, lit128.LogN)
}

func TestResolveDigitsCapped(t *testing.T) {
	spec, lit, err := resolve(ParamSpec{MultiplicativeDepth: 1, PlaintextModulus: 65537, NumLargeDigits: 9})
	require.NoError(t, err)
	require.Equal(t, uint32(2), spec.NumLargeDigits)
	require.Len(t, lit.LogP, 2)
}

func TestResolveRejects(t *testing.T) {
	tests := []struct {
		name string
		spec ParamSpec
	}{
		{"plaintext modulus", ParamSpec{PlaintextModulus: 1}},
		{"security level", ParamSpec{PlaintextModulus: 65537, SecurityLevel: 100}},
		{"relin degree", ParamSpec{PlaintextModulus: 65537, MaxRelinSkDeg: 3}},
		{"first mod size", ParamSpec{PlaintextModulus: 65537, FirstModSize: 61}},
		{"scaling mod size", ParamSpec{PlaintextModulus: 65537, ScalingModSize: 10}},
		{"ring dim not power of two", ParamSpec{PlaintextModulus: 65537, RingDim: 5000}},
		{"ring dim too small", ParamSpec{PlaintextModulus: 65537, RingDim: 512}},
		{"ring dim below security", ParamSpec{PlaintextModulus: 65537, RingDim: 1024, SecurityLevel: 128, MultiplicativeDepth: 4}},
		{"depth beyond every ring", ParamSpec{PlaintextModulus: 65537, MultiplicativeDepth: 2000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := resolve(tt.spec)
			if !errors.Is(err, ErrInvalidParam) {
				t.Fatalf("resolve(%+v) error = %v, want ErrInvalidParam", tt.spec, err)
			}
		})
	}
}

func TestCheckBatchSize(t *testing.T) {
	got, err := checkBatchSize(0, 4096)
	require.NoError(t, err)
	require.Equal(t, uint32(4096), got)

	got, err = checkBatchSize(16, 4096)
	require.NoError(t, err)
	require.Equal(t, uint32(16), got)

	for _, bad := range []uint32{3, 8192} {
		_, err := checkBatchSize(bad, 4096)
		require.ErrorIs(t, err, ErrInvalidParam)
	}
}

func TestNewContextBatchSize(t *testing.T) {
	spec := testSpec
	spec.BatchSize = 7
	_, err := NewContext(spec)
	require.ErrorIs(t, err, ErrInvalidParam)

	spec.BatchSize = 8
	c, err := NewContext(spec)
	require.NoError(t, err)
	defer c.Close()
	require.Equal(t, 8, c.BatchSize())
}
