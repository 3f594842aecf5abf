package token

import (
	"github.com/near/borsh-go"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
)

// AccountSize is the exact serialized size of a token account: mint and
// authority addresses plus a little-endian u64 amount.
const AccountSize = 2*ledger.AddressLength + 8

// Account is the token-level state stored in a ledger account's data.
type Account struct {
	// Mint identifies which token this account holds.
	Mint ledger.Address

	// Authority may transfer the balance, reassign itself and close the
	// account.
	Authority ledger.Address

	// Amount is the token balance.
	Amount uint64
}

// Validate ensures the token account is properly formed.
func (a *Account) Validate() error {
	if a.Mint.IsEmpty() {
		return errors.Wrap(errors.ErrEmpty, "mint")
	}
	if a.Authority.IsEmpty() {
		return errors.Wrap(errors.ErrEmpty, "authority")
	}
	return nil
}

// Pack serializes the token account into its fixed layout.
func (a *Account) Pack() ([]byte, error) {
	raw, err := borsh.Serialize(*a)
	if err != nil {
		return nil, errors.Wrap(err, "serialize token account")
	}
	if len(raw) != AccountSize {
		return nil, errors.Wrapf(errors.ErrHuman, "token account serialized to %d bytes", len(raw))
	}
	return raw, nil
}

// Unpack reads a token account from raw account data. It fails on data of
// the wrong size, including the empty data of a never-initialized or
// already-closed account.
func Unpack(data []byte) (*Account, error) {
	if len(data) != AccountSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "token account data is %d bytes, want %d", len(data), AccountSize)
	}
	var a Account
	if err := borsh.Deserialize(&a, data); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "token account: %v", err)
	}
	return &a, nil
}

// asTokenAccount unpacks the token state of a ledger account that must be
// owned by this service.
func asTokenAccount(program ledger.Address, info *ledger.AccountInfo) (*Account, error) {
	if !info.Owner.Equals(program) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgram, "account %s is not a token account", info.Addr)
	}
	return Unpack(info.Data)
}
