package token

import (
	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
	"github.com/solstice-labs/ledger/runtime"
)

// GenesisTokenAccount declares one pre-funded token account in the genesis
// options under the "tokens" key. Genesis is the only place balances come
// into existence without a transfer.
type GenesisTokenAccount struct {
	Address   ledger.Address `json:"address"`
	Mint      ledger.Address `json:"mint"`
	Authority ledger.Address `json:"authority"`
	Amount    uint64         `json:"amount"`
	Native    uint64         `json:"native"`
}

// Initializer creates token accounts from genesis options.
type Initializer struct {
	// Program is the identity the token service is registered under.
	Program ledger.Address
}

var _ ledger.Initializer = (*Initializer)(nil)

// FromGenesis reads the "tokens" option and persists every declared token
// account, owned by the token service, with the declared balance.
func (i *Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var tokens []GenesisTokenAccount
	if err := opts.ReadOptions("tokens", &tokens); err != nil {
		return err
	}
	for _, gt := range tokens {
		state := Account{
			Mint:      gt.Mint,
			Authority: gt.Authority,
			Amount:    gt.Amount,
		}
		if err := state.Validate(); err != nil {
			return errors.Wrapf(err, "token account %s", gt.Address)
		}
		raw, err := state.Pack()
		if err != nil {
			return err
		}
		acct := &ledger.Account{
			Addr:   gt.Address,
			Owner:  i.Program,
			Native: gt.Native,
			Data:   raw,
		}
		if err := runtime.SaveAccount(db, acct); err != nil {
			return errors.Wrapf(err, "token account %s", gt.Address)
		}
	}
	return nil
}
