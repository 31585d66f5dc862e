/*
Package drop implements the escrow engine.

A creator deposits an amount of the configured token together with a
message. The deposit is held by CustodyAddress until exactly one of two
things happens: any authorized identity claims it, or the creator cancels
it. A claimed drop stays in the store as proof of the claim. A cancelled
drop is removed and its id is never handed out again.

Every operation checks all of its preconditions before touching the
ledger, and writes local state only after the ledger transfer succeeded.
The engine relies on the caller to run each operation on an isolated
cache that is discarded on failure, which app.Application does.
*/
package drop
