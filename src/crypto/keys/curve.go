package keys

import (
	"github.com/btcsuite/btcd/btcec"
)

// Curve returns btcsuite's implementation of secp256k1.
func Curve() *btcec.KoblitzCurve {
	return btcec.S256()
}
