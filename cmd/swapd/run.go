package main

import (
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
	"github.com/solstice-labs/ledger/runtime"
	"github.com/solstice-labs/ledger/store"
	"github.com/solstice-labs/ledger/x/escrow"
	"github.com/solstice-labs/ledger/x/token"
)

// Program identities the scenario runner registers its programs under. They
// are plain name digests; a scenario file references accounts by address, so
// the identities only have to be stable.
var (
	tokenServiceID  = ledger.NewAddress([]byte("token-service"))
	escrowProgramID = ledger.NewAddress([]byte("escrow-program"))
)

// swapPlan is the "swap" section of a scenario file: which accounts take
// part in the escrow and how much of each token changes hands.
type swapPlan struct {
	Initializer  ledger.Address `json:"initializer"`
	Deposit      ledger.Address `json:"deposit"`
	Receive      ledger.Address `json:"receive"`
	Taker        ledger.Address `json:"taker"`
	TakerPay     ledger.Address `json:"taker_pay"`
	TakerReceive ledger.Address `json:"taker_receive"`

	// ExpectedAmount is what the initializer asks for; the deposit's live
	// balance is what the taker receives.
	ExpectedAmount uint64 `json:"expected_amount"`
}

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.json>",
		Short: "Execute a full escrow swap described by a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log, err := conf.logger()
			if err != nil {
				return err
			}
			return runScenario(log, conf.rent(), args[0])
		},
	}
}

func runScenario(log *logrus.Logger, rent ledger.Rent, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "read scenario: %v", err)
	}
	var opts ledger.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "parse scenario: %v", err)
	}

	db := store.MemStore()
	rt, err := runtime.NewRuntime(db, rent, log)
	if err != nil {
		return err
	}
	rt.Register(tokenServiceID, token.Service{})
	rt.Register(escrowProgramID, escrow.Processor{})

	inits := []ledger.Initializer{
		&runtime.Initializer{},
		&token.Initializer{Program: tokenServiceID},
	}
	for _, ini := range inits {
		if err := ini.FromGenesis(opts, db); err != nil {
			return errors.Wrap(err, "genesis")
		}
	}

	var plan swapPlan
	if err := opts.ReadOptions("swap", &plan); err != nil {
		return err
	}
	if plan.Initializer.IsEmpty() {
		return errors.Wrap(errors.ErrInput, "scenario has no swap section")
	}

	// The record account is platform-allocated: funded to exemption,
	// owned by the escrow program, zeroed.
	min, err := rent.MinimumBalance(escrow.RecordSize)
	if err != nil {
		return err
	}
	record := ledger.NewAddress(append([]byte("record:"), plan.Deposit.Bytes()...))
	err = runtime.SaveAccount(db, &ledger.Account{
		Addr:   record,
		Owner:  escrowProgramID,
		Native: min,
		Data:   make([]byte, escrow.RecordSize),
	})
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"record":   record.String(),
		"expected": plan.ExpectedAmount,
	}).Info("opening the escrow")
	err = rt.Process(escrow.NewInitialize(
		escrowProgramID, plan.Initializer, plan.Deposit, plan.Receive,
		record, tokenServiceID, plan.ExpectedAmount))
	if err != nil {
		return errors.Wrap(err, "initialize")
	}

	depositAcct, err := runtime.LoadAccount(db, plan.Deposit)
	if err != nil {
		return err
	}
	depositState, err := token.Unpack(depositAcct.Data)
	if err != nil {
		return err
	}
	derived, _, err := ledger.DeriveAddress(escrowProgramID, escrow.Seed)
	if err != nil {
		return err
	}

	log.WithField("amount", depositState.Amount).Info("taking the escrow")
	err = rt.Process(escrow.NewExchange(
		escrowProgramID, plan.Taker, plan.TakerPay, plan.TakerReceive,
		plan.Deposit, plan.Initializer, plan.Receive, record,
		tokenServiceID, derived, depositState.Amount))
	if err != nil {
		return errors.Wrap(err, "exchange")
	}

	for _, addr := range []ledger.Address{plan.Receive, plan.TakerPay, plan.TakerReceive} {
		acct, err := runtime.LoadAccount(db, addr)
		if err != nil {
			return err
		}
		state, err := token.Unpack(acct.Data)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"account": addr.String(),
			"amount":  state.Amount,
		}).Info("final balance")
	}
	return nil
}
