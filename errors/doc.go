/*
Package errors implements custom error interfaces for the ledger.

The package is a registry of root errors. Every error returned by a program
or by the runtime must wrap one of the roots declared here, so callers can
test failures with the root's Is method without string matching, and the
host can map any failure to a stable numeric code.
*/
package errors
