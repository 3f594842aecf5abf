package token

import (
	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
	"github.com/solstice-labs/ledger/runtime"
)

// Service is the token-transfer program. Register it with a runtime under
// the service's identity address.
type Service struct{}

var _ runtime.Program = Service{}

// Execute dispatches one decoded instruction to its operation.
func (s Service) Execute(ctx *runtime.CallContext, accounts []*ledger.AccountInfo, data []byte) error {
	msg, err := UnpackMsg(data)
	if err != nil {
		return err
	}
	switch msg := msg.(type) {
	case *InitializeAccountMsg:
		return s.initializeAccount(ctx, accounts, msg)
	case *TransferMsg:
		return s.transfer(ctx, accounts, msg)
	case *SetAuthorityMsg:
		return s.setAuthority(ctx, accounts, msg)
	case *CloseAccountMsg:
		return s.closeAccount(ctx, accounts)
	case *MintToMsg:
		return s.mintTo(ctx, accounts, msg)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled message %T", msg)
	}
}

// initializeAccount writes fresh token state into a rent-exempt ledger
// account the service owns.
func (s Service) initializeAccount(ctx *runtime.CallContext, accounts []*ledger.AccountInfo, msg *InitializeAccountMsg) error {
	if len(accounts) != 2 {
		return errors.Wrapf(errors.ErrInput, "expected 2 accounts, got %d", len(accounts))
	}
	target, rentInfo := accounts[0], accounts[1]

	if !target.Writable {
		return errors.Wrap(errors.ErrInput, "target account must be writable")
	}
	if !target.Owner.Equals(ctx.Program()) {
		return errors.Wrapf(errors.ErrIncorrectProgram, "account %s is not owned by the token service", target.Addr)
	}
	if len(target.Data) != 0 {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "account %s", target.Addr)
	}

	rent, err := ledger.UnpackRent(rentInfo.Data)
	if err != nil {
		return err
	}
	if !rent.IsExempt(target.Native, AccountSize) {
		return errors.Wrapf(errors.ErrNotRentExempt, "account %s", target.Addr)
	}

	acct := Account{Mint: msg.Mint, Authority: msg.Authority}
	if err := acct.Validate(); err != nil {
		return err
	}
	raw, err := acct.Pack()
	if err != nil {
		return err
	}
	target.Data = raw
	return nil
}

// transfer moves a token balance between two accounts of the same mint,
// authorized by the source's transfer authority.
func (s Service) transfer(ctx *runtime.CallContext, accounts []*ledger.AccountInfo, msg *TransferMsg) error {
	if len(accounts) != 3 {
		return errors.Wrapf(errors.ErrInput, "expected 3 accounts, got %d", len(accounts))
	}
	source, destination, authority := accounts[0], accounts[1], accounts[2]

	src, err := asTokenAccount(ctx.Program(), source)
	if err != nil {
		return err
	}
	if err := s.authorize(src, authority); err != nil {
		return err
	}

	if source.Addr.Equals(destination.Addr) {
		// Self transfer still requires a valid authority but moves
		// nothing.
		if src.Amount < msg.Amount {
			return errors.Wrapf(errors.ErrInsufficientFunds, "account %s holds %d", source.Addr, src.Amount)
		}
		return nil
	}

	dst, err := asTokenAccount(ctx.Program(), destination)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "mint mismatch between %s and %s", source.Addr, destination.Addr)
	}

	srcAmount, err := ledger.CheckedSub(src.Amount, msg.Amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", source.Addr)
	}
	dstAmount, err := ledger.CheckedAdd(dst.Amount, msg.Amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", destination.Addr)
	}
	src.Amount = srcAmount
	dst.Amount = dstAmount

	if source.Data, err = src.Pack(); err != nil {
		return err
	}
	if destination.Data, err = dst.Pack(); err != nil {
		return err
	}
	return nil
}

// setAuthority reassigns the account's transfer authority. Once the new
// authority is recorded the previous one holds no power over the account.
func (s Service) setAuthority(ctx *runtime.CallContext, accounts []*ledger.AccountInfo, msg *SetAuthorityMsg) error {
	if len(accounts) != 2 {
		return errors.Wrapf(errors.ErrInput, "expected 2 accounts, got %d", len(accounts))
	}
	target, authority := accounts[0], accounts[1]

	acct, err := asTokenAccount(ctx.Program(), target)
	if err != nil {
		return err
	}
	if err := s.authorize(acct, authority); err != nil {
		return err
	}
	if msg.NewAuthority.IsEmpty() {
		return errors.Wrap(errors.ErrEmpty, "new authority")
	}

	acct.Authority = msg.NewAuthority
	if target.Data, err = acct.Pack(); err != nil {
		return err
	}
	return nil
}

// closeAccount removes an emptied token account from the ledger and credits
// its native balance to the destination. The host reclaims the drained
// account at commit.
func (s Service) closeAccount(ctx *runtime.CallContext, accounts []*ledger.AccountInfo) error {
	if len(accounts) != 3 {
		return errors.Wrapf(errors.ErrInput, "expected 3 accounts, got %d", len(accounts))
	}
	target, destination, authority := accounts[0], accounts[1], accounts[2]

	if target.Addr.Equals(destination.Addr) {
		return errors.Wrap(errors.ErrInput, "cannot close an account into itself")
	}
	acct, err := asTokenAccount(ctx.Program(), target)
	if err != nil {
		return err
	}
	if err := s.authorize(acct, authority); err != nil {
		return err
	}
	if acct.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account %s still holds %d tokens", target.Addr, acct.Amount)
	}

	total, err := ledger.CheckedAdd(destination.Native, target.Native)
	if err != nil {
		return err
	}
	destination.Native = total
	target.Native = 0
	target.Data = nil
	return nil
}

// mintTo creates new supply in the account. The mint address itself is the
// minting authority, so genesis aside this is the only way tokens come into
// existence.
func (s Service) mintTo(ctx *runtime.CallContext, accounts []*ledger.AccountInfo, msg *MintToMsg) error {
	if len(accounts) != 2 {
		return errors.Wrapf(errors.ErrInput, "expected 2 accounts, got %d", len(accounts))
	}
	target, mint := accounts[0], accounts[1]

	acct, err := asTokenAccount(ctx.Program(), target)
	if err != nil {
		return err
	}
	if !mint.Signer {
		return errors.Wrapf(errors.ErrMissingSignature, "mint %s", mint.Addr)
	}
	if !acct.Mint.Equals(mint.Addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the account mint", mint.Addr)
	}

	total, err := ledger.CheckedAdd(acct.Amount, msg.Amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", target.Addr)
	}
	acct.Amount = total
	if target.Data, err = acct.Pack(); err != nil {
		return err
	}
	return nil
}

// authorize verifies that the supplied authority account is the recorded
// one and actually signed the call.
func (s Service) authorize(acct *Account, authority *ledger.AccountInfo) error {
	if !authority.Signer {
		return errors.Wrapf(errors.ErrMissingSignature, "authority %s", authority.Addr)
	}
	if !acct.Authority.Equals(authority.Addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the account authority", authority.Addr)
	}
	return nil
}
