package escrow_test

import (
	"math"
	"testing"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
	"github.com/solstice-labs/ledger/ledgertest"
	"github.com/solstice-labs/ledger/ledgertest/assert"
	"github.com/solstice-labs/ledger/x/escrow"
	"github.com/solstice-labs/ledger/x/token"
)

// swapFixture is a two-party swap in the making: the initializer offers 500
// of token X and wants 200 of token Y, the taker holds 300 of token Y.
type swapFixture struct {
	*ledgertest.Fixture

	mintX, mintY ledger.Address

	initializer ledger.Address
	deposit     ledger.Address // initializer's X account, becomes the custodial deposit
	receive     ledger.Address // initializer's Y account

	taker        ledger.Address
	takerPay     ledger.Address // taker's Y account
	takerReceive ledger.Address // taker's X account

	record  ledger.Address
	derived ledger.Address
}

func newSwapFixture(t testing.TB) *swapFixture {
	t.Helper()
	f := ledgertest.NewFixture(t)

	s := &swapFixture{
		Fixture:     f,
		mintX:       ledgertest.NewAddress(),
		mintY:       ledgertest.NewAddress(),
		initializer: ledgertest.NewAddress(),
		taker:       ledgertest.NewAddress(),
	}
	s.deposit = f.TokenAccount(s.mintX, s.initializer, 500)
	s.receive = f.TokenAccount(s.mintY, s.initializer, 0)
	s.takerPay = f.TokenAccount(s.mintY, s.taker, 300)
	s.takerReceive = f.TokenAccount(s.mintX, s.taker, 0)
	s.record = f.RecordAccount()

	derived, _, err := ledger.DeriveAddress(f.EscrowProgram, escrow.Seed)
	if err != nil {
		t.Fatalf("cannot derive custody address: %+v", err)
	}
	s.derived = derived
	return s
}

func (s *swapFixture) initializeIx(amount uint64) ledger.Instruction {
	return escrow.NewInitialize(
		s.EscrowProgram, s.initializer, s.deposit, s.receive,
		s.record, s.TokenService, amount)
}

func (s *swapFixture) exchangeIx(amount uint64) ledger.Instruction {
	return escrow.NewExchange(
		s.EscrowProgram, s.taker, s.takerPay, s.takerReceive, s.deposit,
		s.initializer, s.receive, s.record, s.TokenService, s.derived, amount)
}

func TestInitialize(t *testing.T) {
	s := newSwapFixture(t)

	assert.Nil(t, s.Process(s.initializeIx(200)))

	// The record is populated.
	acct := s.Account(s.record)
	if acct == nil {
		t.Fatal("record account is gone")
	}
	record, err := escrow.UnpackRecord(acct.Data)
	assert.Nil(t, err)
	assert.Equal(t, true, record.IsInitialized)
	assert.Equal(t, s.initializer, record.Initializer)
	assert.Equal(t, s.deposit, record.DepositAccount)
	assert.Equal(t, s.receive, record.ReceiveAccount)
	assert.Equal(t, uint64(200), record.ExpectedAmount)

	// Custody of the deposit moved to the derived address, but no token
	// balance did.
	assert.Equal(t, s.derived, s.TokenAuthority(s.deposit))
	assert.Equal(t, uint64(500), s.TokenBalance(s.deposit))
	assert.Equal(t, uint64(0), s.TokenBalance(s.receive))
}

func TestInitializeFailures(t *testing.T) {
	cases := map[string]struct {
		ix      func(s *swapFixture) ledger.Instruction
		wantErr *errors.Error
	}{
		"initializer did not sign": {
			ix: func(s *swapFixture) ledger.Instruction {
				ix := s.initializeIx(200)
				ix.Accounts[0].Signer = false
				return ix
			},
			wantErr: errors.ErrMissingSignature,
		},
		"receive account is not a token account": {
			ix: func(s *swapFixture) ledger.Instruction {
				plain := s.NativeAccount(1)
				return escrow.NewInitialize(
					s.EscrowProgram, s.initializer, s.deposit, plain,
					s.record, s.TokenService, 200)
			},
			wantErr: errors.ErrIncorrectProgram,
		},
		"record below the rent exemption threshold": {
			ix: func(s *swapFixture) ledger.Instruction {
				min, err := s.Runtime.Rent().MinimumBalance(escrow.RecordSize)
				assert.Nil(t, err)
				poor := ledgertest.NewAddress()
				s.SaveAccount(&ledger.Account{
					Addr:   poor,
					Owner:  s.EscrowProgram,
					Native: min - 1,
					Data:   make([]byte, escrow.RecordSize),
				})
				return escrow.NewInitialize(
					s.EscrowProgram, s.initializer, s.deposit, s.receive,
					poor, s.TokenService, 200)
			},
			wantErr: errors.ErrNotRentExempt,
		},
		"record account must be writable": {
			ix: func(s *swapFixture) ledger.Instruction {
				ix := s.initializeIx(200)
				ix.Accounts[3].Writable = false
				return ix
			},
			wantErr: errors.ErrInput,
		},
		"wrong account count": {
			ix: func(s *swapFixture) ledger.Instruction {
				ix := s.initializeIx(200)
				ix.Accounts = ix.Accounts[:5]
				return ix
			},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s := newSwapFixture(t)
			assert.IsErr(t, tc.wantErr, s.Process(tc.ix(s)))

			// Nothing may change on failure: the deposit authority stays
			// with the initializer and the record stays blank.
			assert.Equal(t, s.initializer, s.TokenAuthority(s.deposit))
			record, err := escrow.UnpackRecord(s.Account(s.record).Data)
			assert.Nil(t, err)
			assert.Equal(t, false, record.IsInitialized)
		})
	}
}

func TestInitializeTwice(t *testing.T) {
	s := newSwapFixture(t)
	assert.Nil(t, s.Process(s.initializeIx(200)))

	// The deposit authority is already gone, but the record check fires
	// first, before any authority movement is attempted.
	err := s.Process(s.initializeIx(999))
	assert.IsErr(t, errors.ErrAlreadyInitialized, err)

	record, err := escrow.UnpackRecord(s.Account(s.record).Data)
	assert.Nil(t, err)
	assert.Equal(t, uint64(200), record.ExpectedAmount)
}

func TestExchange(t *testing.T) {
	s := newSwapFixture(t)
	assert.Nil(t, s.Process(s.initializeIx(200)))

	depositNative := s.NativeBalance(s.deposit)
	recordNative := s.NativeBalance(s.record)

	assert.Nil(t, s.Process(s.exchangeIx(500)))

	// The taker paid 200 Y and received the whole 500 X deposit.
	assert.Equal(t, uint64(100), s.TokenBalance(s.takerPay))
	assert.Equal(t, uint64(500), s.TokenBalance(s.takerReceive))
	assert.Equal(t, uint64(200), s.TokenBalance(s.receive))

	// Both working accounts are gone and their native balances went back
	// to the initializer.
	if s.Account(s.deposit) != nil {
		t.Fatal("deposit account must be reclaimed")
	}
	if s.Account(s.record) != nil {
		t.Fatal("record account must be reclaimed")
	}
	assert.Equal(t, depositNative+recordNative, s.NativeBalance(s.initializer))
}

func TestExchangeAmountMismatch(t *testing.T) {
	// The deposit holds 500; any declared amount but the live balance
	// fails, off-by-one included.
	for _, amount := range []uint64{499, 501, 300, 0} {
		s := newSwapFixture(t)
		assert.Nil(t, s.Process(s.initializeIx(200)))

		err := s.Process(s.exchangeIx(amount))
		assert.IsErr(t, errors.ErrAmountMismatch, err)

		assert.Equal(t, uint64(500), s.TokenBalance(s.deposit))
		assert.Equal(t, uint64(300), s.TokenBalance(s.takerPay))
	}
}

func TestExchangeAmountConsistency(t *testing.T) {
	setup := func(t *testing.T) *swapFixture {
		s := newSwapFixture(t)
		// Grow the deposit to a round million before opening the escrow.
		assert.Nil(t, s.Process(token.NewMintTo(s.TokenService, s.deposit, s.mintX, 999_500)))
		assert.Nil(t, s.Process(s.initializeIx(200)))
		return s
	}

	t.Run("declared equals live balance", func(t *testing.T) {
		s := setup(t)
		assert.Nil(t, s.Process(s.exchangeIx(1_000_000)))
		assert.Equal(t, uint64(1_000_000), s.TokenBalance(s.takerReceive))
	})

	t.Run("declared one below live balance", func(t *testing.T) {
		s := setup(t)
		err := s.Process(s.exchangeIx(999_999))
		assert.IsErr(t, errors.ErrAmountMismatch, err)
		assert.Equal(t, uint64(1_000_000), s.TokenBalance(s.deposit))
	})
}

func TestExchangeFailures(t *testing.T) {
	cases := map[string]struct {
		ix      func(s *swapFixture) ledger.Instruction
		wantErr *errors.Error
	}{
		"taker did not sign": {
			ix: func(s *swapFixture) ledger.Instruction {
				ix := s.exchangeIx(500)
				ix.Accounts[0].Signer = false
				return ix
			},
			wantErr: errors.ErrMissingSignature,
		},
		"wrong deposit account": {
			ix: func(s *swapFixture) ledger.Instruction {
				decoy := s.TokenAccount(s.mintX, s.derived, 500)
				return escrow.NewExchange(
					s.EscrowProgram, s.taker, s.takerPay, s.takerReceive, decoy,
					s.initializer, s.receive, s.record, s.TokenService, s.derived, 500)
			},
			wantErr: errors.ErrInvalidAccountData,
		},
		"wrong initializer account": {
			ix: func(s *swapFixture) ledger.Instruction {
				mallory := s.NativeAccount(0)
				return escrow.NewExchange(
					s.EscrowProgram, s.taker, s.takerPay, s.takerReceive, s.deposit,
					mallory, s.receive, s.record, s.TokenService, s.derived, 500)
			},
			wantErr: errors.ErrInvalidAccountData,
		},
		"wrong receive account": {
			ix: func(s *swapFixture) ledger.Instruction {
				mallory := s.TokenAccount(s.mintY, s.taker, 0)
				return escrow.NewExchange(
					s.EscrowProgram, s.taker, s.takerPay, s.takerReceive, s.deposit,
					s.initializer, mallory, s.record, s.TokenService, s.derived, 500)
			},
			wantErr: errors.ErrInvalidAccountData,
		},
		"taker cannot pay": {
			ix: func(s *swapFixture) ledger.Instruction {
				// The taker's Y account holds 300; drain it to 100 so
				// the expected 200 cannot be paid.
				err := s.Process(token.NewTransfer(
					s.TokenService, s.takerPay, s.receive, s.taker, 200))
				if err != nil {
					panic(err)
				}
				return s.exchangeIx(500)
			},
			wantErr: errors.ErrInsufficientFunds,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s := newSwapFixture(t)
			assert.Nil(t, s.Process(s.initializeIx(200)))
			ix := tc.ix(s)

			takerPayBefore := s.TokenBalance(s.takerPay)

			assert.IsErr(t, tc.wantErr, s.Process(ix))

			// The escrow stays live: deposit under custody, record
			// intact, taker not charged.
			assert.Equal(t, uint64(500), s.TokenBalance(s.deposit))
			assert.Equal(t, s.derived, s.TokenAuthority(s.deposit))
			assert.Equal(t, takerPayBefore, s.TokenBalance(s.takerPay))
			record, err := escrow.UnpackRecord(s.Account(s.record).Data)
			assert.Nil(t, err)
			assert.Equal(t, true, record.IsInitialized)
		})
	}
}

func TestExchangeOnBlankRecord(t *testing.T) {
	s := newSwapFixture(t)
	// No initialize happened, the record is still all zero.
	err := s.Process(s.exchangeIx(500))
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
}

func TestExchangeTwice(t *testing.T) {
	s := newSwapFixture(t)
	assert.Nil(t, s.Process(s.initializeIx(200)))
	assert.Nil(t, s.Process(s.exchangeIx(500)))

	// The record and the deposit are gone, so a replay has nothing to
	// work with and cannot pay out twice.
	err := s.Process(s.exchangeIx(500))
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
	assert.Equal(t, uint64(100), s.TokenBalance(s.takerPay))
	assert.Equal(t, uint64(500), s.TokenBalance(s.takerReceive))
}

func TestExchangeNativeOverflowRollsBack(t *testing.T) {
	s := newSwapFixture(t)
	assert.Nil(t, s.Process(s.initializeIx(200)))

	// Cap the initializer's native balance and strip the deposit's so the
	// only native movement left is the record refund, which overflows.
	s.SaveAccount(&ledger.Account{Addr: s.initializer, Native: math.MaxUint64})
	deposit := s.Account(s.deposit)
	deposit.Native = 0
	s.SaveAccount(deposit)

	err := s.Process(s.exchangeIx(500))
	assert.IsErr(t, errors.ErrOverflow, err)

	// The token legs already ran inside the invocation; all of it must be
	// rolled back.
	assert.Equal(t, uint64(500), s.TokenBalance(s.deposit))
	assert.Equal(t, uint64(300), s.TokenBalance(s.takerPay))
	assert.Equal(t, uint64(0), s.TokenBalance(s.takerReceive))
	assert.Equal(t, uint64(math.MaxUint64), s.NativeBalance(s.initializer))
	record, err := escrow.UnpackRecord(s.Account(s.record).Data)
	assert.Nil(t, err)
	assert.Equal(t, true, record.IsInitialized)
}
