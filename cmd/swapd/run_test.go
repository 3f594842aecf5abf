package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeScenario(t *testing.T, scenario map[string]interface{}) string {
	t.Helper()
	raw, err := json.Marshal(scenario)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func testScenario(takerAmount uint64) map[string]interface{} {
	mintX := ledger.NewAddress([]byte("mint-x"))
	mintY := ledger.NewAddress([]byte("mint-y"))
	initializer := ledger.NewAddress([]byte("alice"))
	taker := ledger.NewAddress([]byte("bob"))
	deposit := ledger.NewAddress([]byte("alice-x"))
	receive := ledger.NewAddress([]byte("alice-y"))
	takerPay := ledger.NewAddress([]byte("bob-y"))
	takerReceive := ledger.NewAddress([]byte("bob-x"))

	// Enough native to keep every token account rent exempt.
	const funded = 2_000_000

	return map[string]interface{}{
		"accounts": []map[string]interface{}{
			{"address": initializer, "native": 5},
		},
		"tokens": []map[string]interface{}{
			{"address": deposit, "mint": mintX, "authority": initializer, "amount": 500, "native": funded},
			{"address": receive, "mint": mintY, "authority": initializer, "amount": 0, "native": funded},
			{"address": takerPay, "mint": mintY, "authority": taker, "amount": takerAmount, "native": funded},
			{"address": takerReceive, "mint": mintX, "authority": taker, "amount": 0, "native": funded},
		},
		"swap": map[string]interface{}{
			"initializer":     initializer,
			"deposit":         deposit,
			"receive":         receive,
			"taker":           taker,
			"taker_pay":       takerPay,
			"taker_receive":   takerReceive,
			"expected_amount": 200,
		},
	}
}

func TestRunScenario(t *testing.T) {
	path := writeScenario(t, testScenario(300))
	err := runScenario(discardLogger(), ledger.DefaultRent, path)
	require.NoError(t, err)
}

func TestRunScenarioTakerCannotPay(t *testing.T) {
	path := writeScenario(t, testScenario(100))
	err := runScenario(discardLogger(), ledger.DefaultRent, path)
	require.True(t, errors.ErrInsufficientFunds.Is(err), "unexpected error: %+v", err)
}

func TestRunScenarioWithoutSwapSection(t *testing.T) {
	scenario := testScenario(300)
	delete(scenario, "swap")
	path := writeScenario(t, scenario)

	err := runScenario(discardLogger(), ledger.DefaultRent, path)
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)
}

func TestLoadConfig(t *testing.T) {
	conf, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, "info", conf.LogLevel)
	require.Equal(t, ledger.DefaultRent, conf.rent())

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("log_level: debug\nrent:\n  base_cost: 10\n  native_per_byte: 2\n")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	conf, err = loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "debug", conf.LogLevel)
	require.Equal(t, ledger.Rent{BaseCost: 10, NativePerByte: 2}, conf.rent())

	require.NoError(t, os.WriteFile(path, []byte("no_such_field: 1\n"), 0o600))
	_, err = loadConfig(path)
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)
}

func TestDeriveCommand(t *testing.T) {
	addr, bump, err := ledger.DeriveAddress(escrowProgramID, []byte("escrow"))
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"derive"})
	require.NoError(t, cmd.Execute())

	require.Contains(t, out.String(), "address: "+addr.String())
	require.Contains(t, out.String(), fmt.Sprintf("bump: %d", bump))
}
