/*
Package geodroptest provides helpers for writing tests against geodrop
extensions: fresh keys and addresses, authorizer stubs and store setup.

It must only be imported from _test.go files.
*/
package geodroptest
