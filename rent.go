package ledger

import (
	"github.com/near/borsh-go"

	"github.com/solstice-labs/ledger/errors"
)

// Rent describes the cost of keeping an account alive on the ledger. An
// account whose native balance meets the threshold for its data length is
// exempt and persists indefinitely.
type Rent struct {
	// BaseCost is charged for the account's existence regardless of size.
	BaseCost uint64

	// NativePerByte is charged per byte of stored data.
	NativePerByte uint64
}

// DefaultRent is used wherever no explicit rent configuration is supplied.
var DefaultRent = Rent{
	BaseCost:      890880,
	NativePerByte: 6960,
}

// MinimumBalance returns the rent-exemption threshold for an account with
// the given data length.
func (r Rent) MinimumBalance(dataLen int) (uint64, error) {
	perData, err := CheckedMul(r.NativePerByte, uint64(dataLen))
	if err != nil {
		return 0, err
	}
	return CheckedAdd(r.BaseCost, perData)
}

// IsExempt reports whether an account holding the given native balance meets
// the rent-exemption threshold for its data length.
func (r Rent) IsExempt(native uint64, dataLen int) bool {
	min, err := r.MinimumBalance(dataLen)
	if err != nil {
		// A threshold beyond uint64 can never be met.
		return false
	}
	return native >= min
}

// Pack serializes the rent parameters for the sysvar account.
func (r Rent) Pack() ([]byte, error) {
	raw, err := borsh.Serialize(r)
	if err != nil {
		return nil, errors.Wrap(err, "serialize rent")
	}
	return raw, nil
}

// UnpackRent reads rent parameters from sysvar account data.
func UnpackRent(data []byte) (Rent, error) {
	var r Rent
	if err := borsh.Deserialize(&r, data); err != nil {
		return Rent{}, errors.Wrapf(errors.ErrInvalidAccountData, "rent sysvar: %v", err)
	}
	return r, nil
}
