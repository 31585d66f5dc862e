/*
Package sigs authorizes operations with ed25519 credentials.

A credential is valid for an identity when the address of its public key
condition equals the identity, its nonce equals the next expected nonce of
that identity, and its signature covers the chain id, the nonce, the
operation path and the serialized operation arguments. A successful check
increments the nonce, so every credential can be used only once.
*/
package sigs
