package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/solstice-labs/ledger/errors"
)

// AddressLength is the length of all addresses. The on-ledger record layouts
// depend on it, so it must never change.
const AddressLength = 32

// Address identifies an account on the ledger. It is a collision-free,
// one-way digest of whatever material the address was created from.
type Address [AddressLength]byte

// NewAddress hashes arbitrary key material into an address.
func NewAddress(data []byte) Address {
	return Address(sha256.Sum256(data))
}

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return a == b
}

// IsEmpty returns true for the zero address, which no keyed party controls.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// String returns a human readable string. Currently hex.
func (a Address) String() string {
	if a.IsEmpty() {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a[:]))
}

// MarshalJSON provides a hex representation for JSON, to override the
// standard base64 []byte encoding.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a[:])))
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	return a.decode(enc)
}

func (a *Address) decode(enc string) error {
	if len(enc) == 0 {
		*a = Address{}
		return nil
	}
	val, err := hex.DecodeString(enc)
	if err != nil {
		return errors.Wrap(err, "cannot decode hex")
	}
	if len(val) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address must be %d bytes, got %d", AddressLength, len(val))
	}
	copy(a[:], val)
	return nil
}

// ParseAddress converts a hex encoded address into its binary form.
func ParseAddress(enc string) (Address, error) {
	var a Address
	if err := a.decode(enc); err != nil {
		return Address{}, err
	}
	return a, nil
}

// AsAddress copies a raw byte slice into an Address. The slice must be
// exactly AddressLength bytes.
func AsAddress(raw []byte) (Address, error) {
	if len(raw) != AddressLength {
		return Address{}, errors.Wrapf(errors.ErrInput, "address must be %d bytes, got %d", AddressLength, len(raw))
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}
