package common

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/rlp"
)

func MakeHash(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

// MakeObjectHash hashes the rlp encoding of `i`, so the same value always
// gives the same hash regardless of the json field order.
func MakeObjectHash(i interface{}) (b []byte, err error) {
	var e []byte
	if e, err = rlp.EncodeToBytes(i); err != nil {
		return
	}

	b = MakeHash(e)

	return
}

func MustMakeObjectHashString(i interface{}) string {
	b, _ := MakeObjectHash(i)
	return hex.EncodeToString(b)
}
