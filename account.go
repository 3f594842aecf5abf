package ledger

import (
	"github.com/near/borsh-go"

	"github.com/solstice-labs/ledger/errors"
)

// Account is the persisted ledger object. Everything on the ledger is an
// account: a plain native-balance wallet, a token account whose state lives
// in Data, or a program state record.
type Account struct {
	// Addr is the account's identity. It is also the storage key, so it
	// is not part of the serialized value.
	Addr Address `borsh_skip:"true"`

	// Owner is the program that may mutate Data and debit Native.
	Owner Address

	// Native is the account balance in the ledger's native unit. It pays
	// for rent and moves only under the owning program's authority.
	Native uint64

	// Data is the program-defined payload.
	Data []byte
}

// Marshal serializes the account value for storage. The address is the
// storage key and is not included.
func (a *Account) Marshal() ([]byte, error) {
	raw, err := borsh.Serialize(*a)
	if err != nil {
		return nil, errors.Wrap(err, "serialize account")
	}
	return raw, nil
}

// Unmarshal loads the account value from its stored form.
func (a *Account) Unmarshal(raw []byte) error {
	if err := borsh.Deserialize(a, raw); err != nil {
		return errors.Wrap(err, "deserialize account")
	}
	return nil
}

// AccountInfo is the per-invocation view of an account that handlers
// receive. Signer and Writable reflect the caller's instruction metadata,
// not any stored state. Two infos for the same address within one
// invocation share the same *Account, so mutations made through a
// cross-program call are immediately visible to later steps.
type AccountInfo struct {
	*Account

	Signer   bool
	Writable bool
}

// AccountMeta declares how an instruction wants one account supplied.
type AccountMeta struct {
	Addr     Address
	Signer   bool
	Writable bool
}

// Instruction is the positional call contract of the ledger: a target
// program, an order-significant account list, and an opaque byte payload the
// program decodes itself.
type Instruction struct {
	Program  Address
	Accounts []AccountMeta
	Data     []byte
}
