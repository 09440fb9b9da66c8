// Package preflight provides readiness checks for the assets, directories,
// credentials and binaries a reel run depends on.
//
// The pipeline calls RunAll before doing any work so a missing outro image or
// ffmpeg binary fails fast. The check command prints the same results as a
// table.
package preflight
