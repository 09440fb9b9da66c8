// Package testsupport holds fixtures shared by package tests: temp-dir
// configurations, solid image assets and stub ffmpeg binaries.
package testsupport
