package runtime

import (
	"bytes"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
)

// SysvarOwner owns the host-provided parameter accounts. No program is
// registered under it, so sysvar data can never be mutated by a call.
var SysvarOwner = ledger.NewAddress([]byte("sysvar"))

// RentSysvarAddress holds the packed rent parameters every runtime seeds at
// construction. Programs that need the rent model take this account in
// their account list instead of talking to the host directly.
var RentSysvarAddress = ledger.NewAddress([]byte("sysvar/rent"))

// Program is the entry point contract every on-ledger program implements:
// (program identity, ordered account list, instruction bytes) in, a typed
// failure or nil out.
type Program interface {
	Execute(ctx *CallContext, accounts []*ledger.AccountInfo, data []byte) error
}

// Runtime executes instructions against a backing store with all-or-nothing
// commit per invocation.
type Runtime struct {
	db       ledger.CacheableKVStore
	rent     ledger.Rent
	log      logrus.FieldLogger
	programs map[ledger.Address]Program
	locks    *lockTable

	// mu serializes invocation bodies. Admission control (locks) decides
	// who may run; this decides that only one does at a time.
	mu sync.Mutex
}

// NewRuntime creates a runtime over the given store and seeds the rent
// sysvar account. A nil logger disables logging.
func NewRuntime(db ledger.CacheableKVStore, rent ledger.Rent, log logrus.FieldLogger) (*Runtime, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	rt := &Runtime{
		db:       db,
		rent:     rent,
		log:      log,
		programs: make(map[ledger.Address]Program),
		locks:    newLockTable(),
	}

	data, err := rent.Pack()
	if err != nil {
		return nil, err
	}
	sysvar := &ledger.Account{
		Addr:   RentSysvarAddress,
		Owner:  SysvarOwner,
		Native: 1,
		Data:   data,
	}
	if err := SaveAccount(db, sysvar); err != nil {
		return nil, errors.Wrap(err, "seed rent sysvar")
	}
	return rt, nil
}

// Register installs a program under its identity. Registering the same
// identity twice is a configuration error and panics, like registering a
// duplicate route.
func (rt *Runtime) Register(id ledger.Address, prog Program) {
	if _, ok := rt.programs[id]; ok {
		panic("program already registered: " + id.String())
	}
	rt.programs[id] = prog
}

// Rent returns the rent parameters this runtime was configured with.
func (rt *Runtime) Rent() ledger.Rent {
	return rt.rent
}

// Store exposes the backing store for genesis initialization and queries.
// State reached through it is the last committed state.
func (rt *Runtime) Store() ledger.CacheableKVStore {
	return rt.db
}

// Process executes one instruction as a single atomic unit. On success all
// mutations are committed and drained accounts (zero native balance, no
// data) are reclaimed. On any failure every mutation made during the
// invocation is discarded.
func (rt *Runtime) Process(ix ledger.Instruction) error {
	prog, ok := rt.programs[ix.Program]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "program %s", ix.Program)
	}

	if err := rt.locks.acquire(ix.Accounts); err != nil {
		return err
	}
	defer rt.locks.release(ix.Accounts)

	rt.mu.Lock()
	defer rt.mu.Unlock()

	cache := rt.db.CacheWrap()
	inv := newInvocation(rt, cache)
	infos, err := inv.load(ix.Accounts)
	if err != nil {
		cache.Discard()
		return err
	}

	log := rt.log.WithField("program", ix.Program.String())
	log.WithField("accounts", len(ix.Accounts)).Debug("processing instruction")

	ctx := &CallContext{
		inv:     inv,
		program: ix.Program,
		infos:   indexInfos(infos),
		log:     log,
	}
	if err := prog.Execute(ctx, infos, ix.Data); err != nil {
		cache.Discard()
		log.WithField("err", err).Debug("instruction failed, rolled back")
		return err
	}
	if err := inv.persist(); err != nil {
		cache.Discard()
		return err
	}
	cache.Write()
	return nil
}

// invocation tracks the accounts loaded for one Process call. The same
// address always resolves to the same *ledger.Account so cross-program
// mutations are visible to the remaining steps of the invocation.
type invocation struct {
	rt    *Runtime
	store ledger.KVCacheWrap
	loaded map[ledger.Address]*loadedAccount
}

type loadedAccount struct {
	acct     *ledger.Account
	writable bool
	// orig is the marshaled state at load time, kept to detect writes
	// through a read-only reference.
	orig []byte
	// order preserves load order for deterministic persistence.
	order int
}

func newInvocation(rt *Runtime, store ledger.KVCacheWrap) *invocation {
	return &invocation{
		rt:     rt,
		store:  store,
		loaded: make(map[ledger.Address]*loadedAccount),
	}
}

func (inv *invocation) load(metas []ledger.AccountMeta) ([]*ledger.AccountInfo, error) {
	infos := make([]*ledger.AccountInfo, len(metas))
	for i, meta := range metas {
		la, ok := inv.loaded[meta.Addr]
		if !ok {
			acct, err := LoadAccount(inv.store, meta.Addr)
			switch {
			case errors.ErrNotFound.Is(err):
				// A missing account is observable as an empty one,
				// owned by nobody, holding nothing.
				acct = &ledger.Account{Addr: meta.Addr}
			case err != nil:
				return nil, err
			}
			orig, err := acct.Marshal()
			if err != nil {
				return nil, err
			}
			la = &loadedAccount{acct: acct, orig: orig, order: len(inv.loaded)}
			inv.loaded[meta.Addr] = la
		}
		la.writable = la.writable || meta.Writable
		infos[i] = &ledger.AccountInfo{
			Account:  la.acct,
			Signer:   meta.Signer,
			Writable: meta.Writable,
		}
	}
	return infos, nil
}

// persist writes back every writable account and reclaims the drained ones.
// A mutation of an account that was never supplied writable fails the whole
// invocation.
func (inv *invocation) persist() error {
	ordered := make([]*loadedAccount, 0, len(inv.loaded))
	for _, la := range inv.loaded {
		ordered = append(ordered, la)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

	for _, la := range ordered {
		if !la.writable {
			now, err := la.acct.Marshal()
			if err != nil {
				return err
			}
			if !bytes.Equal(now, la.orig) {
				return errors.Wrapf(errors.ErrState, "read-only account %s modified", la.acct.Addr)
			}
			continue
		}
		if la.acct.Native == 0 && len(la.acct.Data) == 0 {
			DeleteAccount(inv.store, la.acct.Addr)
			continue
		}
		if err := SaveAccount(inv.store, la.acct); err != nil {
			return err
		}
	}
	return nil
}
