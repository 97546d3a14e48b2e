// Package fhe is a Go API for leveled BGV homomorphic encryption over
// integers modulo a plaintext modulus t, backed by lattigo.
//
// A typical session:
//
//	ctx, err := fhe.NewContext(fhe.DefaultParams())
//	ctx.EnablePKE()
//	ctx.EnableKeySwitch()
//	ctx.EnableLeveledSHE()
//
//	kp, _ := ctx.KeyGen()
//	defer kp.Close()
//	ctx.EvalMultKeyGen(kp.PrivateKey())
//
//	pt, _ := ctx.MakePackedPlaintext([]int64{1, 2, 3, 4})
//	ct, _ := ctx.Encrypt(kp.PublicKey(), pt)
//	sq, _ := ctx.Mult(ct, ct)
//	out, _ := ctx.Decrypt(kp.PrivateKey(), sq) // [1 4 9 16]
//
// # Ownership
//
// Objects returned by constructors, KeyGen and the Deserialize functions are
// owned and release their resources on Close (or from a finalizer). The keys
// returned by KeyPair.PublicKey and KeyPair.PrivateKey are views: closing a
// view never releases the pair's material, and closing the pair leaves the
// views reporting ErrClosed.
//
// # Errors
//
// Every failure is an *Error carrying the operation and a Code. The sentinel
// errors classify it for errors.Is. Panics raised by the engine are recovered
// and reported as ErrInternal.
//
// # Serialization
//
// Contexts, keys, plaintexts and ciphertexts serialize in FormatBinary or
// FormatJSON. Evaluation keys travel separately and are installed into a
// context by DeserializeEvalMultKeys and DeserializeEvalAutomorphismKeys.
package fhe
