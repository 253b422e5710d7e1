package main

import (
	"os"

	"github.com/rustyeddy/swingbot/cmd/swingbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
