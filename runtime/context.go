package runtime

import (
	"github.com/sirupsen/logrus"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
)

// maxInvokeDepth bounds cross-program call nesting.
const maxInvokeDepth = 4

// CallContext is what a program sees of the host during one call frame: its
// own identity, a logger, and the ability to invoke other programs within
// the same invocation.
type CallContext struct {
	inv     *invocation
	program ledger.Address
	infos   map[ledger.Address]framePrivileges
	depth   int
	log     logrus.FieldLogger
}

// framePrivileges are the merged signer/writable grants one frame holds for
// an address. When an address appears several times in an account list the
// grants combine.
type framePrivileges struct {
	signer   bool
	writable bool
}

func indexInfos(infos []*ledger.AccountInfo) map[ledger.Address]framePrivileges {
	idx := make(map[ledger.Address]framePrivileges, len(infos))
	for _, info := range infos {
		p := idx[info.Addr]
		p.signer = p.signer || info.Signer
		p.writable = p.writable || info.Writable
		idx[info.Addr] = p
	}
	return idx
}

// Program returns the identity of the currently executing program.
func (cc *CallContext) Program() ledger.Address {
	return cc.program
}

// Logger returns a logger scoped to this call frame.
func (cc *CallContext) Logger() logrus.FieldLogger {
	return cc.log
}

// Invoke makes a synchronous cross-program call. Account privileges are
// inherited from this frame: the inner instruction cannot mark an account
// as signer or writable unless the current frame holds that privilege.
func (cc *CallContext) Invoke(ix ledger.Instruction) error {
	return cc.invoke(ix, ledger.Address{})
}

// InvokeSigned is Invoke with a synthetic signature: the (seed, bump) pair
// is re-derived against the calling program's identity and the resulting
// address is granted signer status for the inner call. The host accepts
// this in place of a cryptographic signature only because the derivation is
// internally consistent with the caller's own identity; no other program
// can mint it.
func (cc *CallContext) InvokeSigned(ix ledger.Instruction, seed []byte, bump uint8) error {
	derived, err := ledger.DeriveWithBump(cc.program, seed, bump)
	if err != nil {
		return err
	}
	return cc.invoke(ix, derived)
}

func (cc *CallContext) invoke(ix ledger.Instruction, synthetic ledger.Address) error {
	if cc.depth+1 >= maxInvokeDepth {
		return errors.Wrapf(errors.ErrState, "call depth %d exceeds limit", cc.depth+1)
	}
	prog, ok := cc.inv.rt.programs[ix.Program]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "program %s", ix.Program)
	}

	infos := make([]*ledger.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		la, ok := cc.inv.loaded[meta.Addr]
		if !ok {
			// Cross-program calls can only touch accounts the outer
			// caller supplied with the invocation.
			return errors.Wrapf(errors.ErrNotFound, "account %s was not supplied to the invocation", meta.Addr)
		}
		privs := cc.infos[meta.Addr]
		if !synthetic.IsEmpty() && meta.Addr.Equals(synthetic) {
			privs.signer = true
		}
		if meta.Signer && !privs.signer {
			return errors.Wrapf(errors.ErrUnauthorized, "signer privilege escalation for %s", meta.Addr)
		}
		if meta.Writable && !privs.writable {
			return errors.Wrapf(errors.ErrUnauthorized, "writable privilege escalation for %s", meta.Addr)
		}
		infos[i] = &ledger.AccountInfo{
			Account:  la.acct,
			Signer:   meta.Signer,
			Writable: meta.Writable,
		}
	}

	child := &CallContext{
		inv:     cc.inv,
		program: ix.Program,
		infos:   indexInfos(infos),
		depth:   cc.depth + 1,
		log:     cc.log.WithField("program", ix.Program.String()),
	}
	return prog.Execute(child, infos, ix.Data)
}
