/*
Package cash is the ledger the escrow engine moves value through.

Balances are kept per (token, owner) pair. A transfer fails without any
change if the sender does not hold enough of the token, so callers can rely
on a failed MoveCoins leaving both wallets untouched.
*/
package cash
