/*
Package ledger defines the shared vocabulary for a small deterministic
ledger runtime and the programs that run on it: addresses, accounts, the
positional instruction contract, the key-value store interfaces with
cache-wrap rollback, and the rent model.

Concrete behavior lives in sub-packages. The runtime package hosts program
execution with all-or-nothing commit, x/token implements the token-transfer
service, and x/escrow implements the two-party token-swap escrow program.
*/
package ledger
