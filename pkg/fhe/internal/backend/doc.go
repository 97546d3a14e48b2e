// Package backend adapts the lattigo BGV engine to the shapes the public fhe
// package works with. Everything that touches lattigo lives here: parameter
// mapping, the feature set, the evaluation key store, encoding, evaluation,
// the bootstrap state machine and the two wire codecs.
//
// Errors returned from this package are classified by wrapping one of the
// sentinel errors below so that callers can map them onto status codes
// without parsing messages.
package backend
