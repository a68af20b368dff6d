package main

import (
	"os"

	"github.com/pairswap/pairswap/cmd/pairswap/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
