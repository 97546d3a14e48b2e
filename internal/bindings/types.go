package bindings

import "errors"

// ErrNotBuilt reports that the C entry points were not linked into the
// current binary.
var ErrNotBuilt = errors.New("cbfhe/internal/bindings: native entry points not built")

// Check returns ErrNotBuilt when the binary carries no C entry points.
func Check() error {
	if !Available() {
		return ErrNotBuilt
	}
	return nil
}
