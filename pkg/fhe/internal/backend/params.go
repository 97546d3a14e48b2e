package backend

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// ParamSpec is the flat parameter set accepted at the boundary. Zero means
// "use the default" for every size-like field.
type ParamSpec struct {
	MultiplicativeDepth uint32
	PlaintextModulus    uint64
	SecurityLevel       uint32
	RingDim             uint32
	BatchSize           uint32
	MaxRelinSkDeg       uint32
	FirstModSize        uint32
	ScalingModSize      uint32
	NumLargeDigits      uint32
}

const (
	DefaultFirstModSize   = 56
	DefaultScalingModSize = 48
	DefaultMaxRelinSkDeg  = 2

	specialModSize = 60
	minModSize     = 20
	maxModSize     = 60

	minLogN = 10
	maxLogN = 17
)

// heStandardBounds maps security level -> log2(N) -> maximum log2(QP) for a
// ternary secret, taken from the homomorphic encryption standard tables.
var heStandardBounds = map[uint32]map[int]int{
	128: {10: 27, 11: 54, 12: 109, 13: 218, 14: 438, 15: 881},
	192: {10: 19, 11: 37, 12: 75, 13: 152, 14: 305, 15: 611},
	256: {10: 14, 11: 29, 12: 58, 13: 118, 14: 237, 15: 476},
}

// maxLogQP returns the bound for logN at the given security level. Dimensions
// above the table double the last known bound.
func maxLogQP(security uint32, logN int) int {
	table := heStandardBounds[security]
	if bound, ok := table[logN]; ok {
		return bound
	}
	bound := table[15]
	for n := 15; n < logN; n++ {
		bound *= 2
	}
	return bound
}

// resolve fills in defaults and checks the structural constraints the engine
// does not check itself. It returns the completed spec and the lattigo
// literal built from it.
func resolve(spec ParamSpec) (ParamSpec, bgv.ParametersLiteral, error) {
	var lit bgv.ParametersLiteral

	if spec.PlaintextModulus < 2 {
		return spec, lit, fmt.Errorf("%w: plaintext modulus must be at least 2, got %d", ErrInvalidParam, spec.PlaintextModulus)
	}

	switch spec.SecurityLevel {
	case 0, 128, 192, 256:
	default:
		return spec, lit, fmt.Errorf("%w: security level %d is not one of 0, 128, 192, 256", ErrInvalidParam, spec.SecurityLevel)
	}

	if spec.MaxRelinSkDeg == 0 {
		spec.MaxRelinSkDeg = DefaultMaxRelinSkDeg
	}
	if spec.MaxRelinSkDeg > DefaultMaxRelinSkDeg {
		return spec, lit, fmt.Errorf("%w: relinearization of secret-key degree %d is not supported (max %d)", ErrInvalidParam, spec.MaxRelinSkDeg, DefaultMaxRelinSkDeg)
	}

	if spec.FirstModSize == 0 {
		spec.FirstModSize = DefaultFirstModSize
	}
	if spec.ScalingModSize == 0 {
		spec.ScalingModSize = DefaultScalingModSize
	}
	for _, size := range []uint32{spec.FirstModSize, spec.ScalingModSize} {
		if size < minModSize || size > maxModSize {
			return spec, lit, fmt.Errorf("%w: modulus size %d outside [%d, %d]", ErrInvalidParam, size, minModSize, maxModSize)
		}
	}

	logQ := make([]int, 0, spec.MultiplicativeDepth+1)
	logQ = append(logQ, int(spec.FirstModSize))
	for i := uint32(0); i < spec.MultiplicativeDepth; i++ {
		logQ = append(logQ, int(spec.ScalingModSize))
	}

	digits := int(spec.NumLargeDigits)
	if digits == 0 {
		digits = 1
	}
	if digits > len(logQ) {
		digits = len(logQ)
	}
	spec.NumLargeDigits = uint32(digits)
	logP := make([]int, digits)
	for i := range logP {
		logP[i] = specialModSize
	}

	logQP := 0
	for _, b := range logQ {
		logQP += b
	}
	for _, b := range logP {
		logQP += b
	}

	security := spec.SecurityLevel
	logN := 0
	if spec.RingDim != 0 {
		if bits.OnesCount32(spec.RingDim) != 1 {
			return spec, lit, fmt.Errorf("%w: ring dimension %d is not a power of two", ErrInvalidParam, spec.RingDim)
		}
		logN = bits.TrailingZeros32(spec.RingDim)
		if logN < minLogN || logN > maxLogN {
			return spec, lit, fmt.Errorf("%w: ring dimension %d outside [2^%d, 2^%d]", ErrInvalidParam, spec.RingDim, minLogN, maxLogN)
		}
		if security != 0 && logQP > maxLogQP(security, logN) {
			return spec, lit, fmt.Errorf("%w: ring dimension %d cannot hold log(QP)=%d at %d-bit security", ErrInvalidParam, spec.RingDim, logQP, security)
		}
	} else {
		if security == 0 {
			security = 128
		}
		for n := minLogN; n <= maxLogN; n++ {
			if logQP <= maxLogQP(security, n) {
				logN = n
				break
			}
		}
		if logN == 0 {
			return spec, lit, fmt.Errorf("%w: no supported ring dimension holds log(QP)=%d at %d-bit security", ErrInvalidParam, logQP, security)
		}
		spec.RingDim = 1 << logN
	}

	lit = bgv.ParametersLiteral{
		LogN:             logN,
		LogQ:             logQ,
		LogP:             logP,
		PlaintextModulus: spec.PlaintextModulus,
	}
	return spec, lit, nil
}

// checkBatchSize validates the requested batch size against the slot count
// of the built parameters and returns the effective value.
func checkBatchSize(batch uint32, slots int) (uint32, error) {
	if batch == 0 {
		return uint32(slots), nil
	}
	if bits.OnesCount32(batch) != 1 || int(batch) > slots {
		return 0, fmt.Errorf("%w: batch size %d must be a power of two no larger than %d", ErrInvalidParam, batch, slots)
	}
	return batch, nil
}
