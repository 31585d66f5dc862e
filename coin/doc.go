/*
Package coin provides the Int128 amount type used for every value moved
through the ledger. Amounts are signed 128 bit integers stored as two 64 bit
halves, so that they serialize with protobuf and compare without allocation.
*/
package coin
