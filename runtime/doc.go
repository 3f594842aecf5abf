/*
Package runtime hosts program execution on the ledger.

It owns the guarantees programs rely on but do not implement themselves:
every invocation runs on a cache-wrapped view of the store that is committed
only on success and discarded on any failure, conflicting concurrent
invocations are rejected by account-lock admission before the handler body
runs, accounts drained to zero are reclaimed, and cross-program calls may be
authorized by synthetic signatures re-derived from the calling program's
identity and a seed.
*/
package runtime
