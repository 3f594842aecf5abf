package token

import (
	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/runtime"
)

// Instruction constructors. Account order is part of the service's wire
// contract, so callers build instructions only through these.

// NewInitializeAccount builds the instruction that initializes a token
// account for the given mint under the given authority.
// Accounts: [account(w), rent-sysvar(r)].
func NewInitializeAccount(program, account, mint, authority ledger.Address) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			{Addr: account, Writable: true},
			{Addr: runtime.RentSysvarAddress},
		},
		Data: packMsg(opInitializeAccount, InitializeAccountMsg{Mint: mint, Authority: authority}),
	}
}

// NewTransfer builds the instruction that moves amount from source to
// destination, authorized by the source's authority.
// Accounts: [source(w), destination(w), authority(signer)].
func NewTransfer(program, source, destination, authority ledger.Address, amount uint64) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			{Addr: source, Writable: true},
			{Addr: destination, Writable: true},
			{Addr: authority, Signer: true},
		},
		Data: packMsg(opTransfer, TransferMsg{Amount: amount}),
	}
}

// NewSetAuthority builds the instruction that hands the account's transfer
// authority to newAuthority, authorized by the current authority.
// Accounts: [account(w), current-authority(signer)].
func NewSetAuthority(program, account, newAuthority, currentAuthority ledger.Address) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			{Addr: account, Writable: true},
			{Addr: currentAuthority, Signer: true},
		},
		Data: packMsg(opSetAuthority, SetAuthorityMsg{NewAuthority: newAuthority}),
	}
}

// NewMintTo builds the instruction that creates amount new tokens in the
// account, authorized by the mint itself.
// Accounts: [account(w), mint(signer)].
func NewMintTo(program, account, mint ledger.Address, amount uint64) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			{Addr: account, Writable: true},
			{Addr: mint, Signer: true},
		},
		Data: packMsg(opMintTo, MintToMsg{Amount: amount}),
	}
}

// NewCloseAccount builds the instruction that closes an emptied token
// account, crediting its native balance to destination.
// Accounts: [account(w), destination(w), authority(signer)].
func NewCloseAccount(program, account, destination, authority ledger.Address) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			{Addr: account, Writable: true},
			{Addr: destination, Writable: true},
			{Addr: authority, Signer: true},
		},
		Data: packMsg(opCloseAccount, CloseAccountMsg{}),
	}
}
