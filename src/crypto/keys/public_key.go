package keys

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec"
	"github.com/lnrecon/lnrecon/src/common"
)

// CompressedLen is the length of a serialized node public key.
const CompressedLen = btcec.PubKeyBytesLenCompressed

// ParseNodeKey parses a hex encoded node public key. Compressed, uncompressed
// and hybrid encodings are accepted; the point must lie on the curve.
func ParseNodeKey(pubHex string) (*btcec.PublicKey, error) {
	raw, err := common.DecodeHex(pubHex)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty node public key")
	}
	pub, err := btcec.ParsePubKey(raw, Curve())
	if err != nil {
		return nil, fmt.Errorf("invalid node public key %q: %v", pubHex, err)
	}
	return pub, nil
}

// NodeKeyHex returns the canonical representation of a node public key: the
// compressed form in lowercase hex.
func NodeKeyHex(pub *btcec.PublicKey) string {
	if pub == nil {
		return ""
	}
	return hex.EncodeToString(pub.SerializeCompressed())
}

// NormalizeNodeKey parses pubHex and returns its canonical form, so that the
// same node advertised in different encodings yields the same identity.
func NormalizeNodeKey(pubHex string) (string, error) {
	pub, err := ParseNodeKey(pubHex)
	if err != nil {
		return "", err
	}
	return NodeKeyHex(pub), nil
}

// GenerateNodeKey creates a fresh key pair and returns the canonical public
// key. It is only used to build fixtures.
func GenerateNodeKey() (string, error) {
	priv, err := btcec.NewPrivateKey(Curve())
	if err != nil {
		return "", err
	}
	return NodeKeyHex(priv.PubKey()), nil
}
