/*
Package app runs transactions against a committed store.

A Router dispatches every message to the Handler registered for its path.
Decorators chained in front of the router add logging, recovery and tags.
Application ties the handler to a CommitKVStore. It executes one
transaction at a time on a cache of the committed state, writes the cache
only if the handler succeeded, commits, and finally publishes the tags of
the result to the subscribed listeners.
*/
package app
