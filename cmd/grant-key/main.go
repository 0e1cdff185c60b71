// Package main provides a one-shot utility for authoring grant key generation.
//
// It emits the asymmetric keypair used to sign and verify catalog
// authoring grants.
package main

import (
	"os"

	"github.com/puzzlebox-games/puzzlebox/internal/platform/config"
	"github.com/puzzlebox-games/puzzlebox/internal/tools/grantkey"
)

func main() {
	if err := grantkey.Run(os.Stdout, nil); err != nil {
		config.Exitf("generate authoring grant key: %v", err)
	}
}
