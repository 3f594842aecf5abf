package ledgertest

import (
	"crypto/rand"
	"testing"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
	"github.com/solstice-labs/ledger/runtime"
	"github.com/solstice-labs/ledger/store"
	"github.com/solstice-labs/ledger/x/escrow"
	"github.com/solstice-labs/ledger/x/token"
)

// NewAddress returns a random address, to be used only in tests.
func NewAddress() ledger.Address {
	material := make([]byte, 32)
	if _, err := rand.Read(material); err != nil {
		panic(err)
	}
	return ledger.NewAddress(material)
}

// Fixture stands up an in-memory ledger with the token service and the
// escrow program registered, plus helpers to create and inspect accounts.
type Fixture struct {
	t testing.TB

	Runtime *runtime.Runtime
	DB      ledger.CacheableKVStore

	// TokenService and EscrowProgram are the identities the two
	// programs are registered under.
	TokenService  ledger.Address
	EscrowProgram ledger.Address
}

// NewFixture creates a ledger fixture backed by a MemStore.
func NewFixture(t testing.TB) *Fixture {
	t.Helper()
	db := store.MemStore()
	rt, err := runtime.NewRuntime(db, ledger.DefaultRent, nil)
	if err != nil {
		t.Fatalf("cannot create runtime: %+v", err)
	}
	f := &Fixture{
		t:             t,
		Runtime:       rt,
		DB:            db,
		TokenService:  ledger.NewAddress([]byte("token-service")),
		EscrowProgram: ledger.NewAddress([]byte("escrow-program")),
	}
	rt.Register(f.TokenService, token.Service{})
	rt.Register(f.EscrowProgram, escrow.Processor{})
	return f
}

// Process runs one instruction through the runtime.
func (f *Fixture) Process(ix ledger.Instruction) error {
	return f.Runtime.Process(ix)
}

// SaveAccount persists an account into the backing store, bypassing any
// program logic. Tests use it to model the platform-level account creation
// the programs expect the caller to have done.
func (f *Fixture) SaveAccount(acct *ledger.Account) {
	f.t.Helper()
	if err := runtime.SaveAccount(f.DB, acct); err != nil {
		f.t.Fatalf("cannot save account: %+v", err)
	}
}

// NativeAccount creates an account holding the given native balance under a
// fresh random address.
func (f *Fixture) NativeAccount(native uint64) ledger.Address {
	f.t.Helper()
	addr := NewAddress()
	f.SaveAccount(&ledger.Account{Addr: addr, Native: native})
	return addr
}

// TokenAccount creates a rent-exempt token account for the given mint and
// authority, holding the given token amount, under a fresh random address.
func (f *Fixture) TokenAccount(mint, authority ledger.Address, amount uint64) ledger.Address {
	f.t.Helper()
	state := token.Account{Mint: mint, Authority: authority, Amount: amount}
	raw, err := state.Pack()
	if err != nil {
		f.t.Fatalf("cannot pack token account: %+v", err)
	}
	min, err := f.Runtime.Rent().MinimumBalance(token.AccountSize)
	if err != nil {
		f.t.Fatalf("cannot compute rent: %+v", err)
	}
	addr := NewAddress()
	f.SaveAccount(&ledger.Account{
		Addr:   addr,
		Owner:  f.TokenService,
		Native: min,
		Data:   raw,
	})
	return addr
}

// RecordAccount creates an empty, rent-exempt escrow record account, as the
// initializer's client would before calling Initialize.
func (f *Fixture) RecordAccount() ledger.Address {
	f.t.Helper()
	min, err := f.Runtime.Rent().MinimumBalance(escrow.RecordSize)
	if err != nil {
		f.t.Fatalf("cannot compute rent: %+v", err)
	}
	addr := NewAddress()
	f.SaveAccount(&ledger.Account{
		Addr:   addr,
		Owner:  f.EscrowProgram,
		Native: min,
		Data:   make([]byte, escrow.RecordSize),
	})
	return addr
}

// Account loads an account from the last committed state, or nil if the
// address holds none.
func (f *Fixture) Account(addr ledger.Address) *ledger.Account {
	f.t.Helper()
	acct, err := runtime.LoadAccount(f.DB, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		f.t.Fatalf("cannot load account: %+v", err)
	}
	return acct
}

// NativeBalance returns the committed native balance, zero for a missing
// account.
func (f *Fixture) NativeBalance(addr ledger.Address) uint64 {
	f.t.Helper()
	acct := f.Account(addr)
	if acct == nil {
		return 0
	}
	return acct.Native
}

// TokenBalance returns the committed token amount, zero for a missing or
// closed account.
func (f *Fixture) TokenBalance(addr ledger.Address) uint64 {
	f.t.Helper()
	acct := f.Account(addr)
	if acct == nil {
		return 0
	}
	state, err := token.Unpack(acct.Data)
	if err != nil {
		f.t.Fatalf("account %s is not a token account: %+v", addr, err)
	}
	return state.Amount
}

// TokenAuthority returns the committed transfer authority of a token
// account.
func (f *Fixture) TokenAuthority(addr ledger.Address) ledger.Address {
	f.t.Helper()
	acct := f.Account(addr)
	if acct == nil {
		f.t.Fatalf("account %s does not exist", addr)
	}
	state, err := token.Unpack(acct.Data)
	if err != nil {
		f.t.Fatalf("account %s is not a token account: %+v", addr, err)
	}
	return state.Authority
}
