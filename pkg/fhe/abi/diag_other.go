//go:build !linux

package abi

// Without a portable thread id every thread shares one slot.
func threadID() int { return 0 }
