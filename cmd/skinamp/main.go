// Package main is the entry point for Skinamp, a classic skin engine.
//
// Build:
//
//	go build -o build/skinamp ./cmd/skinamp
//
// Run the skinned window, optionally with a skin:
//
//	./build/skinamp [skin.wsz]
//
// Inspect, validate or unpack a skin without a window:
//
//	./build/skinamp inspect skin.wsz
//	./build/skinamp extract skin.wsz --out sprites --scale 2
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
