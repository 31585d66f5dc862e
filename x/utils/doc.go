/*
Package utils contains the decorators every geodrop application stacks in
front of its router: panic recovery, logging, savepoints and action tags.
*/
package utils
