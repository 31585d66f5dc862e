/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension owns at most one configuration record, stored under the
"_c:<package>" key. Because bucket names may only contain lower case letters
and underscores, this key can never collide with a bucket entry.

Configuration can be loaded from a genesis file (the "conf" section, keyed
by the package name) and is read and written as a whole by the extension
that owns it.
*/
package gconf
