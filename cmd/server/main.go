// Package main implements the entry point for the sitegen server, which turns
// natural-language prompts into a static website with Gemini and serves the
// result over HTTP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
