package runtime

import (
	"sync"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
)

// lockTable is the admission control for concurrent invocations. An
// invocation must take a write lock on every account it may mutate and a
// read lock on the rest. A conflicting invocation is not queued but
// rejected, so a losing attempt fails before its handler body ever runs.
type lockTable struct {
	mu      sync.Mutex
	readers map[ledger.Address]int
	writers map[ledger.Address]int
}

func newLockTable() *lockTable {
	return &lockTable{
		readers: make(map[ledger.Address]int),
		writers: make(map[ledger.Address]int),
	}
}

// merge collapses duplicate account references so an instruction listing
// the same address twice does not conflict with itself.
func merge(metas []ledger.AccountMeta) map[ledger.Address]bool {
	want := make(map[ledger.Address]bool, len(metas))
	for _, m := range metas {
		want[m.Addr] = want[m.Addr] || m.Writable
	}
	return want
}

func (l *lockTable) acquire(metas []ledger.AccountMeta) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	want := merge(metas)
	for addr, writable := range want {
		if l.writers[addr] > 0 {
			return errors.Wrapf(errors.ErrAccountInUse, "%s", addr)
		}
		if writable && l.readers[addr] > 0 {
			return errors.Wrapf(errors.ErrAccountInUse, "%s", addr)
		}
	}
	for addr, writable := range want {
		if writable {
			l.writers[addr]++
		} else {
			l.readers[addr]++
		}
	}
	return nil
}

func (l *lockTable) release(metas []ledger.AccountMeta) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for addr, writable := range merge(metas) {
		if writable {
			l.writers[addr]--
		} else {
			l.readers[addr]--
		}
	}
}
