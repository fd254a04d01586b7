package main

import (
	"os"

	"github.com/msto63/modlevel/cmd/modlevel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
