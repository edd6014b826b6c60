// Package deps checks the external binaries and filesystem resources an
// assembly run depends on.
package deps
