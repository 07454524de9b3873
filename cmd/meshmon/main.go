package main

import (
	"os"

	"github.com/LckyLuciano/meshmon/cmd/meshmon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
