package main

import (
	"os"

	"github.com/gangov/vrf-poker-activity/cmd/drawd/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
