package fhe

import "runtime"

// ZeroizeBytes overwrites buf with zeros. Serialized private keys pass
// through here once the caller is done with them.
//
// runtime.KeepAlive keeps the stores from being eliminated (golang/go#33325).
// Copies made by the garbage collector or by the engine are out of reach.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
