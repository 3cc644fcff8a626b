package main

import (
	"errors"
	"os"

	"git.gammaspectra.live/P2Pool/scytale/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errCheckFailed) {
			// mismatches were already reported
			os.Exit(1)
		}
		utils.Fatalf("scytale: %s", err)
	}
}
