/*
Package ledgertest provides helpers for testing ledger programs: random
address fixtures and a Fixture that stands up an in-memory runtime with the
token service and the escrow program registered.
*/
package ledgertest
