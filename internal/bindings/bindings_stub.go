//go:build !cgo || windows

package bindings

// Available reports whether the cbfhe_* C entry points are compiled in.
func Available() bool { return false }
