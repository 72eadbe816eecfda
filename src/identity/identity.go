// Package identity derives content-addressed keys from the immutable fields
// that define "the same entity".
//
// A key is the lowercase hex SHA256 of the canonical JSON encoding of the
// entity kind followed by its identity fields. Two partial views that produce
// the same key describe the same entity for the lifetime of the process.
package identity

import (
	"bytes"
	"fmt"

	"github.com/lnrecon/lnrecon/src/crypto"
	"github.com/ugorji/go/codec"
)

// Entity kinds.
const (
	ChannelKind = "channel"
	NodeKind    = "node"
)

// Size is the length of a key in hex characters.
const Size = 64

// Key returns the identity key of an entity of the given kind. Fields are
// encoded in the order they are given.
func Key(kind string, fields ...interface{}) string {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	payload := append([]interface{}{kind}, fields...)

	// Identity fields are strings and integers, which the handle always
	// encodes. An error here is a programming bug.
	if err := enc.Encode(payload); err != nil {
		panic(fmt.Sprintf("identity: encoding %v: %v", payload, err))
	}

	return crypto.HexDigest(b.Bytes())
}

// Channel returns the identity key of a channel.
func Channel(id string) string {
	return Key(ChannelKind, id)
}

// ChannelState returns a key over a channel id and a coarse activity bucket.
// Some upstream sources key on such pairs; it is never used as the identity
// of a channel entity because the bucket is mutable.
func ChannelState(id string, state string) string {
	return Key(ChannelKind, id, state)
}

// Node returns the identity key of a node. pubKey must be canonical (see
// keys.NormalizeNodeKey).
func Node(pubKey string) string {
	return Key(NodeKind, pubKey)
}

// Valid reports whether k looks like a key produced by this package.
func Valid(k string) bool {
	if len(k) != Size {
		return false
	}
	for _, c := range k {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// MismatchError reports a view whose identity fields do not hash to the key
// of the entity it was applied to.
type MismatchError struct {
	Expected string
	Got      string
}

// Error implements the error interface.
func (e MismatchError) Error() string {
	return fmt.Sprintf("identity mismatch: expected %s, got %s", e.Expected, e.Got)
}

// IsMismatch checks that an error is a MismatchError.
func IsMismatch(err error) bool {
	_, ok := err.(MismatchError)
	return ok
}

// Verify returns a MismatchError unless got equals expected.
func Verify(expected, got string) error {
	if expected != got {
		return MismatchError{Expected: expected, Got: got}
	}
	return nil
}
