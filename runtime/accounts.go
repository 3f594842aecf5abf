package runtime

import (
	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
)

var accountPrefix = []byte("acct:")

func accountKey(addr ledger.Address) []byte {
	key := make([]byte, 0, len(accountPrefix)+ledger.AddressLength)
	key = append(key, accountPrefix...)
	return append(key, addr[:]...)
}

// LoadAccount reads an account from the store. Returns ErrNotFound for an
// address that holds no account.
func LoadAccount(db ledger.ReadOnlyKVStore, addr ledger.Address) (*ledger.Account, error) {
	raw := db.Get(accountKey(addr))
	if raw == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	acct := &ledger.Account{}
	if err := acct.Unmarshal(raw); err != nil {
		return nil, err
	}
	acct.Addr = addr
	return acct, nil
}

// SaveAccount persists an account under its address.
func SaveAccount(db ledger.KVStore, acct *ledger.Account) error {
	raw, err := acct.Marshal()
	if err != nil {
		return err
	}
	db.Set(accountKey(acct.Addr), raw)
	return nil
}

// DeleteAccount removes an account from the store. Deleting a missing
// account is a noop.
func DeleteAccount(db ledger.KVStore, addr ledger.Address) {
	db.Delete(accountKey(addr))
}
