package runtime

import (
	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
)

// GenesisAccount is the declaration of one native-funded account in the
// genesis options under the "accounts" key.
type GenesisAccount struct {
	Address ledger.Address `json:"address"`
	Native  uint64         `json:"native"`
}

// Initializer creates native-funded accounts from genesis options.
type Initializer struct{}

var _ ledger.Initializer = (*Initializer)(nil)

// FromGenesis reads the "accounts" option and persists every declared
// account with the given native balance and no owner program.
func (*Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("accounts", &accounts); err != nil {
		return err
	}
	for _, ga := range accounts {
		if ga.Address.IsEmpty() {
			return errors.Wrap(errors.ErrEmpty, "account address")
		}
		acct := &ledger.Account{
			Addr:   ga.Address,
			Native: ga.Native,
		}
		if err := SaveAccount(db, acct); err != nil {
			return errors.Wrapf(err, "account %s", ga.Address)
		}
	}
	return nil
}
