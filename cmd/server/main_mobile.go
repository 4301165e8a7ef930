//go:build android || ios
// +build android ios

// Package main provides a stub for mobile platforms, which the server does
// not target.
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "ERROR: cmd/server is not supported on mobile platforms")
	fmt.Fprintln(os.Stderr, "Run the server on a desktop platform (Linux, macOS, Windows)")
	os.Exit(1)
}
