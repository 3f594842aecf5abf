/*
Package escrow implements a trustless two-party token-swap program.

An initializer deposits token A into an account whose authority is handed to
a derived address only this program can sign for, and records the amount of
token B expected in return together with the account that must receive it. A
taker then completes the swap in a single invocation: the taker pays the
expected amount of token B, receives the whole token A deposit, and both
custodial accounts are reclaimed. The host's all-or-nothing commit makes the
two legs inseparable.

There is no refund or cancellation path: once initialized, an escrow can
only complete. Recovering a deposit that never finds a taker is outside this
program.
*/
package escrow
