// Package deps checks that the external programs the reel pipeline shells
// out to are installed.
package deps
