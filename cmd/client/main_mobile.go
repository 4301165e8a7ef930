//go:build android || ios
// +build android ios

// Package main provides a stub for mobile platforms, which the client does
// not target.
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "ERROR: cmd/client is not supported on mobile platforms")
	fmt.Fprintln(os.Stderr, "Build for a desktop platform (Linux, macOS, Windows) instead")
	os.Exit(1)
}
