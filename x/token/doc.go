/*
Package token implements the ledger's token-transfer service.

A token account is a ledger account owned by this program whose data holds
the mint, the transfer authority, and the token amount. The service exposes
five operations: initialize a token account, mint new supply, transfer a
balance, reassign the transfer authority, and close an emptied account.
Other programs drive it through cross-program calls built with the New*
instruction constructors.
*/
package token
