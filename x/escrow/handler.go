package escrow

import (
	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
	"github.com/solstice-labs/ledger/runtime"
	"github.com/solstice-labs/ledger/x/token"
)

// Seed is the derivation seed for the escrow authority. Together with the
// program's identity it determines the derived address that holds custody
// of every deposit.
var Seed = []byte("escrow")

// Processor is the escrow program. Register it with a runtime under the
// program's identity address.
type Processor struct{}

var _ runtime.Program = Processor{}

// Execute decodes the instruction buffer and dispatches to the matching
// handler.
func (p Processor) Execute(ctx *runtime.CallContext, accounts []*ledger.AccountInfo, data []byte) error {
	msg, err := UnpackMsg(data)
	if err != nil {
		return err
	}
	switch msg := msg.(type) {
	case *InitializeMsg:
		ctx.Logger().Debug("instruction: initialize")
		return p.initialize(ctx, accounts, msg.Amount)
	case *ExchangeMsg:
		ctx.Logger().Debug("instruction: exchange")
		return p.exchange(ctx, accounts, msg.Amount)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled message %T", msg)
	}
}

// initializeAccounts is the typed form of the Initialize account list. The
// positional contract (order, count, modes) is validated once, up front,
// instead of being spread over raw index accesses.
type initializeAccounts struct {
	initializer   *ledger.AccountInfo // signer, writable
	depositSource *ledger.AccountInfo // writable
	receive       *ledger.AccountInfo // read-only
	record        *ledger.AccountInfo // writable
	rentInfo      *ledger.AccountInfo // read-only
	tokenService  *ledger.AccountInfo // read-only
}

func decodeInitializeAccounts(accounts []*ledger.AccountInfo) (*initializeAccounts, error) {
	if len(accounts) != 6 {
		return nil, errors.Wrapf(errors.ErrInput, "expected 6 accounts, got %d", len(accounts))
	}
	a := &initializeAccounts{
		initializer:   accounts[0],
		depositSource: accounts[1],
		receive:       accounts[2],
		record:        accounts[3],
		rentInfo:      accounts[4],
		tokenService:  accounts[5],
	}
	for _, must := range []*ledger.AccountInfo{a.initializer, a.depositSource, a.record} {
		if !must.Writable {
			return nil, errors.Wrapf(errors.ErrInput, "account %s must be writable", must.Addr)
		}
	}
	return a, nil
}

// initialize populates the escrow record and hands custodial authority of
// the deposit to the derived address. No token balances move.
func (p Processor) initialize(ctx *runtime.CallContext, accounts []*ledger.AccountInfo, amount uint64) error {
	a, err := decodeInitializeAccounts(accounts)
	if err != nil {
		return err
	}

	if !a.initializer.Signer {
		return errors.Wrapf(errors.ErrMissingSignature, "initializer %s", a.initializer.Addr)
	}
	if !a.receive.Owner.Equals(a.tokenService.Addr) {
		return errors.Wrapf(errors.ErrIncorrectProgram, "receive account %s is not owned by the token service", a.receive.Addr)
	}

	rent, err := ledger.UnpackRent(a.rentInfo.Data)
	if err != nil {
		return err
	}
	// The record account must be pre-funded by the caller; no funding
	// transfer happens here.
	if !rent.IsExempt(a.record.Native, len(a.record.Data)) {
		return errors.Wrapf(errors.ErrNotRentExempt, "record account %s", a.record.Addr)
	}

	record, err := UnpackRecord(a.record.Data)
	if err != nil {
		return err
	}
	if record.IsInitialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "record %s", a.record.Addr)
	}

	record.IsInitialized = true
	record.Initializer = a.initializer.Addr
	record.DepositAccount = a.depositSource.Addr
	record.ReceiveAccount = a.receive.Addr
	record.ExpectedAmount = amount
	if a.record.Data, err = record.Pack(); err != nil {
		return err
	}

	derived, _, err := ledger.DeriveAddress(ctx.Program(), Seed)
	if err != nil {
		return err
	}
	ctx.Logger().Debug("reassigning deposit authority to the derived address")
	return ctx.Invoke(token.NewSetAuthority(
		a.tokenService.Addr,
		a.depositSource.Addr,
		derived,
		a.initializer.Addr,
	))
}

// exchangeAccounts is the typed form of the Exchange account list.
type exchangeAccounts struct {
	taker           *ledger.AccountInfo // signer, writable
	takerPay        *ledger.AccountInfo // writable
	takerReceive    *ledger.AccountInfo // writable
	deposit         *ledger.AccountInfo // writable
	initializerMain *ledger.AccountInfo // writable
	receive         *ledger.AccountInfo // writable
	record          *ledger.AccountInfo // writable
	tokenService    *ledger.AccountInfo // read-only
	derived         *ledger.AccountInfo // read-only
}

func decodeExchangeAccounts(accounts []*ledger.AccountInfo) (*exchangeAccounts, error) {
	if len(accounts) != 9 {
		return nil, errors.Wrapf(errors.ErrInput, "expected 9 accounts, got %d", len(accounts))
	}
	a := &exchangeAccounts{
		taker:           accounts[0],
		takerPay:        accounts[1],
		takerReceive:    accounts[2],
		deposit:         accounts[3],
		initializerMain: accounts[4],
		receive:         accounts[5],
		record:          accounts[6],
		tokenService:    accounts[7],
		derived:         accounts[8],
	}
	writable := []*ledger.AccountInfo{
		a.taker, a.takerPay, a.takerReceive, a.deposit,
		a.initializerMain, a.receive, a.record,
	}
	for _, must := range writable {
		if !must.Writable {
			return nil, errors.Wrapf(errors.ErrInput, "account %s must be writable", must.Addr)
		}
	}
	return a, nil
}

// exchange completes the swap: the taker pays the expected amount of the
// counter token, receives the whole deposit, and both custodial accounts
// are drained for reclamation. Either every step happens or, through the
// host's rollback, none is observable.
func (p Processor) exchange(ctx *runtime.CallContext, accounts []*ledger.AccountInfo, amount uint64) error {
	a, err := decodeExchangeAccounts(accounts)
	if err != nil {
		return err
	}

	if !a.taker.Signer {
		return errors.Wrapf(errors.ErrMissingSignature, "taker %s", a.taker.Addr)
	}

	deposit, err := token.Unpack(a.deposit.Data)
	if err != nil {
		return err
	}
	derived, bump, err := ledger.DeriveAddress(ctx.Program(), Seed)
	if err != nil {
		return err
	}

	// The live balance is authoritative, not whatever the taker's client
	// cached. A stale declared amount must fail before anything moves.
	if amount != deposit.Amount {
		return errors.Wrapf(errors.ErrAmountMismatch, "declared %d, deposit holds %d", amount, deposit.Amount)
	}

	record, err := UnpackRecord(a.record.Data)
	if err != nil {
		return err
	}
	if !record.IsInitialized {
		return errors.Wrapf(errors.ErrInvalidAccountData, "record %s is not initialized", a.record.Addr)
	}

	// The platform guarantees no referential integrity between the
	// record and the live accounts, so every stored cross-reference is
	// checked against the supplied list.
	if !record.DepositAccount.Equals(a.deposit.Addr) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "deposit account %s does not match the record", a.deposit.Addr)
	}
	if !record.Initializer.Equals(a.initializerMain.Addr) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer %s does not match the record", a.initializerMain.Addr)
	}
	if !record.ReceiveAccount.Equals(a.receive.Addr) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "receive account %s does not match the record", a.receive.Addr)
	}

	ctx.Logger().Debug("transferring the expected amount to the initializer")
	err = ctx.Invoke(token.NewTransfer(
		a.tokenService.Addr,
		a.takerPay.Addr,
		a.receive.Addr,
		a.taker.Addr,
		record.ExpectedAmount,
	))
	if err != nil {
		return err
	}

	ctx.Logger().Debug("transferring the deposit to the taker")
	err = ctx.InvokeSigned(token.NewTransfer(
		a.tokenService.Addr,
		a.deposit.Addr,
		a.takerReceive.Addr,
		derived,
		deposit.Amount,
	), Seed, bump)
	if err != nil {
		return err
	}

	ctx.Logger().Debug("closing the deposit account")
	err = ctx.InvokeSigned(token.NewCloseAccount(
		a.tokenService.Addr,
		a.deposit.Addr,
		a.initializerMain.Addr,
		derived,
	), Seed, bump)
	if err != nil {
		return err
	}

	// Return the record account's native balance to the initializer and
	// clear the record so the host reclaims it.
	total, err := ledger.CheckedAdd(a.initializerMain.Native, a.record.Native)
	if err != nil {
		return err
	}
	a.initializerMain.Native = total
	a.record.Native = 0
	a.record.Data = nil
	return nil
}
