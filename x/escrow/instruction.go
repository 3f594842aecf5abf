package escrow

import (
	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/runtime"
)

// Instruction constructors. Account order is part of the program's wire
// contract, so callers build instructions only through these.

// NewInitialize builds the instruction that opens an escrow: the record is
// populated and the deposit source's authority moves to the derived address.
// Accounts: [initializer(s,w), depositSource(w), receive(r), record(w),
// rent-sysvar(r), tokenService(r)].
func NewInitialize(program, initializer, depositSource, receive, record, tokenService ledger.Address, amount uint64) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			{Addr: initializer, Signer: true, Writable: true},
			{Addr: depositSource, Writable: true},
			{Addr: receive},
			{Addr: record, Writable: true},
			{Addr: runtime.RentSysvarAddress},
			{Addr: tokenService},
		},
		Data: PackInitialize(amount),
	}
}

// NewExchange builds the instruction that completes an escrow. The derived
// address is recomputed by the caller, not trusted from state.
// Accounts: [taker(s,w), takerPay(w), takerReceive(w), deposit(w),
// initializerMain(w), receive(w), record(w), tokenService(r), derived(r)].
func NewExchange(program, taker, takerPay, takerReceive, deposit, initializerMain, receive, record, tokenService, derived ledger.Address, amount uint64) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			{Addr: taker, Signer: true, Writable: true},
			{Addr: takerPay, Writable: true},
			{Addr: takerReceive, Writable: true},
			{Addr: deposit, Writable: true},
			{Addr: initializerMain, Writable: true},
			{Addr: receive, Writable: true},
			{Addr: record, Writable: true},
			{Addr: tokenService},
			{Addr: derived},
		},
		Data: PackExchange(amount),
	}
}
