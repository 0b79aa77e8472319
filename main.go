package main

import (
	"os"

	"github.com/abhisek/vitals/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
