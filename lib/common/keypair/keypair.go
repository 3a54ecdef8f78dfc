//
// Encapsulate Stellar's keypair package
//
// Provides additional wrapper and convenience functions,
// suited for usage within ballotbox. Voter, creator and admin identities are
// stellar account addresses.
//
package keypair

import (
	stellar "github.com/stellar/go/keypair"

	"boscoin.io/ballotbox/lib/errors"
)

// Aliases to stellar types
type Full = stellar.Full
type FromAddress = stellar.FromAddress
type KP = stellar.KP

// Aliases to stellar functions
var Master = stellar.Master
var Parse = stellar.Parse
var RandomCanFail = stellar.Random

// ValidateAddress checks `address` is a well-formed public account address.
// Secret seeds are rejected, they must never be used as identity.
func ValidateAddress(address string) (string, error) {
	kp, err := Parse(address)
	if err != nil {
		return "", errors.InvalidIdentity.Clone().SetData("identity", address).SetData("error", err.Error())
	}

	if _, ok := kp.(*FromAddress); !ok {
		return "", errors.InvalidIdentity.Clone().SetData("identity", "<secret seed>")
	}

	return kp.Address(), nil
}
