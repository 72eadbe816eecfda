// Package keys handles Lightning node identity keys.
//
// A Lightning node is identified by a secp256k1 public key, serialized in its
// 33-byte compressed form and printed as 66 lowercase hex characters. The same
// curve is used by Bitcoin, so we rely on btcsuite's implementation to check
// that a key advertised by an upstream source is a valid point before it is
// used as part of an identity.
package keys
