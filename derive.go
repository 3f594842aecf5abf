package ledger

import (
	"crypto/sha256"

	"filippo.io/edwards25519"

	"github.com/solstice-labs/ledger/errors"
)

// derivedMarker is mixed into every derived-address preimage so that a
// derived address can never collide with a NewAddress digest.
var derivedMarker = []byte("DerivedLedgerAddress")

// DeriveAddress computes the program-derived address for a (program, seed)
// pair, together with the bump that makes the derivation valid.
//
// The address is the first candidate, searching bump values from 255
// downward, that is not a valid edwards25519 point encoding. Such an address
// cannot correspond to any private key, so only the owning program can
// authorize actions for it, by re-presenting the same (seed, bump) at call
// time.
func DeriveAddress(program Address, seed []byte) (Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		candidate := deriveCandidate(program, seed, uint8(bump))
		if isOffCurve(candidate) {
			return candidate, uint8(bump), nil
		}
	}
	// Statistically unreachable: about half of all digests decode as
	// curve points, so 256 consecutive hits do not happen in practice.
	return Address{}, 0, errors.Wrapf(errors.ErrInput, "no valid bump for seed %X", seed)
}

// DeriveWithBump re-derives the address for an explicit (seed, bump) pair.
// It fails if the candidate at that bump is a valid curve point, since such
// an address could carry a private key and must never pass as a synthetic
// signer.
func DeriveWithBump(program Address, seed []byte, bump uint8) (Address, error) {
	candidate := deriveCandidate(program, seed, bump)
	if !isOffCurve(candidate) {
		return Address{}, errors.Wrapf(errors.ErrUnauthorized, "bump %d does not produce a keyless address", bump)
	}
	return candidate, nil
}

func deriveCandidate(program Address, seed []byte, bump uint8) Address {
	h := sha256.New()
	h.Write(seed)
	h.Write([]byte{bump})
	h.Write(program[:])
	h.Write(derivedMarker)
	var a Address
	copy(a[:], h.Sum(nil))
	return a
}

// isOffCurve reports whether the address is not a canonical edwards25519
// point encoding, meaning no keypair can ever sign for it.
func isOffCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err != nil
}
